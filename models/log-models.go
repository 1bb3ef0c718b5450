package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ToolType string

const (
	ToolResize   ToolType = "resize"
	ToolConvert  ToolType = "convert"
	ToolCompress ToolType = "compress"
)

// ProcessingLog records one completed transform. Rows are written once and never updated.
type ProcessingLog struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           *string   `json:"userId" gorm:"type:varchar(36);index"`
	ToolType         ToolType  `json:"toolType" gorm:"not null"`
	InputFormat      string    `json:"inputFormat" gorm:"not null"`
	OutputFormat     *string   `json:"outputFormat"`
	FileSizeMB       float64   `json:"fileSizeMB" gorm:"column:file_size_mb;type:decimal(10,2);not null"`
	ProcessingTimeMs int64     `json:"processingTimeMs" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt" gorm:"not null;index"`
}

func (l *ProcessingLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// BytesToMB converts a byte count to megabytes (2^20 bytes).
func BytesToMB(size int64) float64 {
	return float64(size) / (1024 * 1024)
}

// RoundMB rounds to the two decimals the file_size_mb column keeps.
func RoundMB(mb float64) float64 {
	return math.Round(mb*100) / 100
}
