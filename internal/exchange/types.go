package exchange

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewearhq/rewear-backend/internal/catalog"
	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// ListingBonus is the flat point credit granted for each new listing.
const ListingBonus = 10

// PowerListerThreshold is the listing count that earns the power lister badge.
const PowerListerThreshold = 10

// SwapRequestDTO is the API projection of a swap request row.
type SwapRequestDTO struct {
	ID          uuid.UUID               `json:"id"`
	ItemID      uuid.UUID               `json:"item_id"`
	RequesterID uuid.UUID               `json:"requester_id"`
	OwnerID     uuid.UUID               `json:"owner_id"`
	Status      enums.SwapRequestStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	ResolvedAt  *time.Time              `json:"resolved_at,omitempty"`
}

// RequestSwapResult pairs the transitioned item with its swap request record.
type RequestSwapResult struct {
	Item        catalog.ItemDTO `json:"item"`
	SwapRequest SwapRequestDTO  `json:"swap_request"`
}

// RedeemResult pairs the exchanged item with the debited member ledger view.
type RedeemResult struct {
	Item   catalog.ItemDTO   `json:"item"`
	Member members.MemberDTO `json:"member"`
}

func toSwapRequestDTO(req *models.SwapRequest) SwapRequestDTO {
	return SwapRequestDTO{
		ID:          req.ID,
		ItemID:      req.ItemID,
		RequesterID: req.RequesterID,
		OwnerID:     req.OwnerID,
		Status:      req.Status,
		CreatedAt:   req.CreatedAt,
		ResolvedAt:  req.ResolvedAt,
	}
}
