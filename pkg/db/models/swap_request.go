package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// SwapRequest records a member's request to exchange for a listed item.
// The owning item's exchange_status is the authority on whether a request is
// live; resolved rows are kept for audit.
type SwapRequest struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID      uuid.UUID               `gorm:"column:item_id;type:uuid;not null;index"`
	RequesterID uuid.UUID               `gorm:"column:requester_id;type:uuid;not null;index"`
	OwnerID     uuid.UUID               `gorm:"column:owner_id;type:uuid;not null"`
	Status      enums.SwapRequestStatus `gorm:"column:status;type:swap_request_status;not null;default:pending"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	ResolvedAt  *time.Time              `gorm:"column:resolved_at"`
}
