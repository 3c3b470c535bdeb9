package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently operated on at most 72 bytes; legacy hashes may have been
// produced from truncated input.
const bcryptMaxLen = 72

var (
	// ErrEmptyPassword is returned when hashing an empty string.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong guards against absurd inputs before hashing.
	ErrPasswordTooLong = errors.New("password too long")
)

// Params are the argon2id cost parameters baked into new hashes.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams mirror the parameters the legacy system migrated to.
func DefaultParams() Params {
	return Params{
		Time:    2,
		Memory:  19456, // KiB, ~19MB
		Threads: 1,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// Hasher hashes and verifies password credentials. Verification transparently
// recognizes legacy bcrypt hashes and raw stored plaintext, producing an
// upgraded argon2id hash for the caller to persist.
type Hasher struct {
	params Params
}

// NewHasher builds a Hasher with the given cost parameters.
func NewHasher(params Params) *Hasher {
	if params.Time == 0 || params.Memory == 0 || params.Threads == 0 ||
		params.SaltLen == 0 || params.KeyLen == 0 {
		params = DefaultParams()
	}
	return &Hasher{params: params}
}

// Hash produces a self-describing argon2id hash blob.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > 4096 {
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyAndUpgrade reports whether plain matches stored and, when the match
// used a deprecated algorithm or stale parameters, returns a fresh hash under
// the current defaults. The upgrade hash is always computed from the full
// plaintext. Internal errors are reported as a failed match so callers cannot
// leak which part of verification broke.
func (h *Hasher) VerifyAndUpgrade(plain, stored string) (bool, string) {
	switch {
	case strings.HasPrefix(stored, "$argon2id$"):
		ok, stale := h.verifyArgon2(plain, stored)
		if !ok {
			return false, ""
		}
		if stale {
			return true, h.rehash(plain)
		}
		return true, ""

	case strings.HasPrefix(stored, "$2"):
		if !h.verifyBcrypt(plain, stored) {
			return false, ""
		}
		return true, h.rehash(plain)

	default:
		// Last-resort legacy case: plaintext stored directly.
		if stored == "" {
			return false, ""
		}
		if subtle.ConstantTimeCompare([]byte(plain), []byte(stored)) != 1 {
			return false, ""
		}
		return true, h.rehash(plain)
	}
}

func (h *Hasher) rehash(plain string) string {
	hashed, err := h.Hash(plain)
	if err != nil {
		// Login already succeeded; a failed upgrade just keeps the old blob.
		return ""
	}
	return hashed
}

func (h *Hasher) verifyBcrypt(plain, stored string) bool {
	candidate := []byte(plain)
	if len(candidate) > bcryptMaxLen {
		candidate = candidate[:bcryptMaxLen]
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), candidate) == nil
}

func (h *Hasher) verifyArgon2(plain, stored string) (ok, stale bool) {
	params, salt, key, err := parseArgon2(stored)
	if err != nil {
		return false, false
	}

	computed := argon2.IDKey([]byte(plain), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(computed, key) != 1 {
		return false, false
	}

	stale = params.Time != h.params.Time ||
		params.Memory != h.params.Memory ||
		params.Threads != h.params.Threads ||
		uint32(len(key)) != h.params.KeyLen
	return true, stale
}

func parseArgon2(stored string) (Params, []byte, []byte, error) {
	parts := strings.Split(stored, "$")
	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, errors.New("malformed argon2 hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, err
	}
	if version != argon2.Version {
		return Params{}, nil, nil, errors.New("unsupported argon2 version")
	}

	var params Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return Params{}, nil, nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, err
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, err
	}
	return params, salt, key, nil
}
