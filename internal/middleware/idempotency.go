package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventoshub/eventos-backend/internal/cache"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const idempotencyTTL = 24 * time.Hour

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays stored responses for mutating requests that carry an
// Idempotency-Key header. The key is bound to method+path, so reusing a key
// against a different endpoint does not replay.
func Idempotency(store cache.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			sig := sha256.Sum256([]byte(r.Method + r.URL.Path))
			cacheKey := cache.IdempotencyKey(key, hex.EncodeToString(sig[:]))

			if raw, err := store.Get(r.Context(), cacheKey); err == nil {
				var stored storedResponse
				if err := json.Unmarshal(raw, &stored); err == nil {
					w.Header().Set("Content-Type", stored.ContentType)
					w.WriteHeader(stored.Status)
					w.Write(stored.Body)
					return
				}
			}

			var buf bytes.Buffer
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)

			next.ServeHTTP(ww, r)

			stored := storedResponse{
				Status:      ww.Status(),
				ContentType: ww.Header().Get("Content-Type"),
				Body:        buf.Bytes(),
			}
			raw, err := json.Marshal(stored)
			if err != nil {
				return
			}
			if err := store.Set(r.Context(), cacheKey, raw, idempotencyTTL); err != nil {
				log.Warn().Err(err).Msg("Failed to store idempotent response")
			}
		})
	}
}
