package repository

import (
	"context"
	"fmt"

	"github.com/krishkalaria12/imageworld/models"
	"gorm.io/gorm"
)

// ProcessingLogRepository is append-only: logs are inserted and read, never changed.
type ProcessingLogRepository interface {
	Create(ctx context.Context, log *models.ProcessingLog) error
	ListRecent(ctx context.Context, userID string, limit int) ([]models.ProcessingLog, error)
}

type processingLogRepo struct {
	db *gorm.DB
}

func NewProcessingLogRepo(db *gorm.DB) ProcessingLogRepository {
	return &processingLogRepo{db: db}
}

func (r *processingLogRepo) Create(ctx context.Context, log *models.ProcessingLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("creating processing log: %w", err)
	}
	return nil
}

// ListRecent returns up to limit logs for the user, most recent first.
func (r *processingLogRepo) ListRecent(ctx context.Context, userID string, limit int) ([]models.ProcessingLog, error) {
	var logs []models.ProcessingLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("listing processing logs for %s: %w", userID, err)
	}
	return logs, nil
}
