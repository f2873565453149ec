package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// Item represents a listed garment in the catalog.
type Item struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID        uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;index"`
	Title          string               `gorm:"column:title;not null"`
	Description    *string              `gorm:"column:description"`
	Category       enums.ItemCategory   `gorm:"column:category;type:item_category;not null"`
	Size           string               `gorm:"column:size;not null"`
	Condition      enums.ItemCondition  `gorm:"column:condition;type:item_condition;not null"`
	Points         int                  `gorm:"column:points;not null"`
	Tags           pq.StringArray       `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURLs      pq.StringArray       `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	PrimaryImage   *string              `gorm:"column:primary_image"`
	ExchangeStatus enums.ExchangeStatus `gorm:"column:exchange_status;type:exchange_status;not null;default:available"`
	UnderReview    bool                 `gorm:"column:under_review;not null;default:false"`
	WatcherCount   int                  `gorm:"column:watcher_count;not null;default:0"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	// Rejected listings are soft-deleted so swap request rows keep a valid
	// item reference for audit.
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
