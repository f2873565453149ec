package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// Repository handles swap request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to swap request operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create persists a new swap request row.
func (r *Repository) Create(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// FindPendingByItem returns the live swap request for an item, if any.
func (r *Repository) FindPendingByItem(ctx context.Context, itemID uuid.UUID) (*models.SwapRequest, error) {
	var req models.SwapRequest
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ?", itemID, enums.SwapRequestStatusPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolvePendingByItem closes the item's live swap request with the given
// terminal status. Missing pending rows are not an error.
func (r *Repository) ResolvePendingByItem(ctx context.Context, itemID uuid.UUID, status enums.SwapRequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("item_id = ? AND status = ?", itemID, enums.SwapRequestStatusPending).
		UpdateColumns(map[string]any{
			"status":      status,
			"resolved_at": time.Now().UTC(),
		}).Error
}

// ResolvePendingByOwner closes every live swap request against the owner's
// items with the given terminal status.
func (r *Repository) ResolvePendingByOwner(ctx context.Context, ownerID uuid.UUID, status enums.SwapRequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("owner_id = ? AND status = ?", ownerID, enums.SwapRequestStatusPending).
		UpdateColumns(map[string]any{
			"status":      status,
			"resolved_at": time.Now().UTC(),
		}).Error
}

// ListByRequester returns a member's swap requests, newest first.
func (r *Repository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.SwapRequest, error) {
	var rows []models.SwapRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
