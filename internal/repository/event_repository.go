package repository

import (
	"context"
	"fmt"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
	"gorm.io/gorm"
)

// EventRepository handles event and event-day database operations
type EventRepository struct{}

// NewEventRepository creates a new event repository
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// ListByTenant retrieves all events of a tenant with their days
func (r *EventRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Event, error) {
	var events []models.Event
	if err := database.DB.WithContext(ctx).
		Preload("Days").
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// FindByTenantAndID retrieves one event scoped to the tenant, days preloaded
func (r *EventRepository) FindByTenantAndID(ctx context.Context, tenantID, id uint) (*models.Event, error) {
	var event models.Event
	if err := database.DB.WithContext(ctx).
		Preload("Days").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &event, nil
}

// Create creates a new event with its days
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := database.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Update saves event changes
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := database.DB.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete removes an event and its days
func (r *EventRepository) Delete(ctx context.Context, tenantID, id uint) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventDay{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ?", tenantID).Delete(&models.Event{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// FindDay retrieves a single event day
func (r *EventRepository) FindDay(ctx context.Context, dayID uint) (*models.EventDay, error) {
	var day models.EventDay
	if err := database.DB.WithContext(ctx).
		Where("id = ?", dayID).
		First(&day).Error; err != nil {
		return nil, fmt.Errorf("failed to find event day: %w", err)
	}
	return &day, nil
}

// AddDay appends a day to an event
func (r *EventRepository) AddDay(ctx context.Context, day *models.EventDay) error {
	if err := database.DB.WithContext(ctx).Create(day).Error; err != nil {
		return fmt.Errorf("failed to add event day: %w", err)
	}
	return nil
}
