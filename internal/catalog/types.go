package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// HotWatcherThreshold is the watcher count at which a listing is surfaced as hot.
const HotWatcherThreshold = 10

// CreateItemInput carries the fields required to list an item.
type CreateItemInput struct {
	OwnerID      uuid.UUID
	Title        string
	Description  *string
	Category     enums.ItemCategory
	Size         string
	Condition    enums.ItemCondition
	Points       int
	Tags         []string
	ImageURLs    []string
	PrimaryImage *string
}

// ListFilter narrows and orders a catalog listing query.
type ListFilter struct {
	Category           *enums.ItemCategory
	Sort               enums.ItemSort
	Cursor             string
	Limit              int
	IncludeUnderReview bool
}

// ItemDTO is the API projection of an item row.
type ItemDTO struct {
	ID             uuid.UUID            `json:"id"`
	OwnerID        uuid.UUID            `json:"owner_id"`
	Title          string               `json:"title"`
	Description    *string              `json:"description,omitempty"`
	Category       enums.ItemCategory   `json:"category"`
	Size           string               `json:"size"`
	Condition      enums.ItemCondition  `json:"condition"`
	Points         int                  `json:"points"`
	Tags           []string             `json:"tags"`
	ImageURLs      []string             `json:"image_urls"`
	PrimaryImage   *string              `json:"primary_image,omitempty"`
	ExchangeStatus enums.ExchangeStatus `json:"exchange_status"`
	UnderReview    bool                 `json:"under_review"`
	WatcherCount   int                  `json:"watcher_count"`
	IsHot          bool                 `json:"is_hot"`
	CreatedAt      time.Time            `json:"created_at"`
}

// ItemPageDTO is a cursor-paginated catalog listing.
type ItemPageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ToDTO converts an item model into its API projection.
func ToDTO(item *models.Item) ItemDTO {
	tags := make([]string, 0, len(item.Tags))
	tags = append(tags, item.Tags...)
	images := make([]string, 0, len(item.ImageURLs))
	images = append(images, item.ImageURLs...)
	return ItemDTO{
		ID:             item.ID,
		OwnerID:        item.OwnerID,
		Title:          item.Title,
		Description:    item.Description,
		Category:       item.Category,
		Size:           item.Size,
		Condition:      item.Condition,
		Points:         item.Points,
		Tags:           tags,
		ImageURLs:      images,
		PrimaryImage:   item.PrimaryImage,
		ExchangeStatus: item.ExchangeStatus,
		UnderReview:    item.UnderReview,
		WatcherCount:   item.WatcherCount,
		IsHot:          item.WatcherCount >= HotWatcherThreshold,
		CreatedAt:      item.CreatedAt,
	}
}
