package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	"github.com/rewearhq/rewear-backend/pkg/pagination"
)

// Repository handles item persistence and status transitions.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
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

// Create persists a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads an item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns items matching the filter. The recent sort pages with a keyset
// cursor; the points and popular sorts return a single bounded page because
// their order keys are mutable.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Item, string, error) {
	normalizedLimit := pagination.NormalizeLimit(filter.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filter.Limit)

	query := r.db.WithContext(ctx).Model(&models.Item{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if !filter.IncludeUnderReview {
		query = query.Where("under_review = ?", false)
	}

	switch filter.Sort {
	case enums.ItemSortPoints:
		query = query.Order("points ASC").Order("id ASC").Limit(normalizedLimit)
	case enums.ItemSortPopular:
		query = query.Order("watcher_count DESC").Order("id DESC").Limit(normalizedLimit)
	default:
		decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(filter.Cursor))
		if err != nil {
			return nil, "", err
		}
		if decodedCursor != nil {
			query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
		}
		query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)
	}

	var rows []models.Item
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if filter.Sort != enums.ItemSortPoints && filter.Sort != enums.ItemSortPopular && len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// TransitionStatus moves an item between exchange statuses only when it still
// holds the expected status and is not under review. The conditional WHERE
// plus RowsAffected check is what makes concurrent transitions resolve to a
// single winner; the review clause keeps a flag that lands between snapshot
// and claim from being raced past.
func (r *Repository) TransitionStatus(ctx context.Context, itemID uuid.UUID, from, to enums.ExchangeStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND exchange_status = ? AND under_review = ?", itemID, from, false).
		UpdateColumns(map[string]any{
			"exchange_status": to,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TransitionStatusFromAny moves an item to the target status when its current
// status is any of the allowed set and it is not under review.
func (r *Repository) TransitionStatusFromAny(ctx context.Context, itemID uuid.UUID, from []enums.ExchangeStatus, to enums.ExchangeStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND exchange_status IN ? AND under_review = ?", itemID, from, false).
		UpdateColumns(map[string]any{
			"exchange_status": to,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetUnderReview toggles the moderation review flag.
func (r *Repository) SetUnderReview(ctx context.Context, itemID uuid.UUID, underReview bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", itemID).
		UpdateColumns(map[string]any{
			"under_review": underReview,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReserveByOwner pulls all of a member's live listings out of circulation
// and returns the number of affected items.
func (r *Repository) ReserveByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("owner_id = ? AND exchange_status IN ?", ownerID,
			[]enums.ExchangeStatus{enums.ExchangeStatusAvailable, enums.ExchangeStatusPendingSwap}).
		UpdateColumns(map[string]any{
			"exchange_status": enums.ExchangeStatusReserved,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete soft-removes the item and reports whether it was live. The row stays
// behind so swap request references survive for audit; every read and update
// path scopes it out.
func (r *Repository) Delete(ctx context.Context, itemID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.Item{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddWatch inserts a watch entry and bumps the watcher counter. Duplicate
// watches are ignored and leave the counter untouched.
func (r *Repository) AddWatch(ctx context.Context, itemID, memberID uuid.UUID) error {
	if itemID == uuid.Nil || memberID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	result := r.db.WithContext(ctx).
		Exec(`INSERT INTO item_watches (id, item_id, member_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (item_id, member_id) DO NOTHING`,
			uuid.New(), itemID, memberID, time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("watcher_count", gorm.Expr("watcher_count + 1")).
		Error
}

// RemoveWatch deletes the watch entry if present and decrements the counter.
func (r *Repository) RemoveWatch(ctx context.Context, itemID, memberID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("item_id = ? AND member_id = ?", itemID, memberID).
		Delete(&models.ItemWatch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND watcher_count > 0", itemID).
		UpdateColumn("watcher_count", gorm.Expr("watcher_count - 1")).
		Error
}
