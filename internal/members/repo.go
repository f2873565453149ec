package members

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

// Repository handles member persistence including the point ledger columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to member operations.
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

// Create persists a new member row.
func (r *Repository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// FindByID loads a member by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail loads a member by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns members newest first using a keyset cursor.
func (r *Repository) List(ctx context.Context, cursor string, limit int) ([]models.Member, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.Member{})
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var rows []models.Member
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// Credit adds points to a member's balance.
func (r *Repository) Credit(ctx context.Context, memberID uuid.UUID, amount int) error {
	if amount <= 0 {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"points_balance": gorm.Expr("points_balance + ?", amount),
			"updated_at":     time.Now().UTC(),
		}).Error
}

// Debit subtracts points only when the balance covers the amount. The guard in
// the WHERE clause keeps the ledger non-negative under concurrent debits; the
// boolean reports whether this call won the row.
func (r *Repository) Debit(ctx context.Context, memberID uuid.UUID, amount int) (bool, error) {
	if amount <= 0 {
		return false, gorm.ErrInvalidValue
	}
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ? AND points_balance >= ?", memberID, amount).
		UpdateColumns(map[string]any{
			"points_balance": gorm.Expr("points_balance - ?", amount),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementListings bumps the member's active listing counter.
func (r *Repository) IncrementListings(ctx context.Context, memberID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"listings_count": gorm.Expr("listings_count + ?", delta),
			"updated_at":     time.Now().UTC(),
		}).Error
}

// IncrementSwaps bumps the member's completed swap counter.
func (r *Repository) IncrementSwaps(ctx context.Context, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"total_swaps": gorm.Expr("total_swaps + 1"),
			"updated_at":  time.Now().UTC(),
		}).Error
}

// UpdateStanding sets the member's standing and reports whether the row exists.
func (r *Repository) UpdateStanding(ctx context.Context, memberID uuid.UUID, standing enums.MemberStanding) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"standing":   standing,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateRole sets the member's role and reports whether the row exists.
func (r *Repository) UpdateRole(ctx context.Context, memberID uuid.UUID, role enums.MemberRole) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"role":       role,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ResetPoints zeroes the member's balance and reports whether the row exists.
func (r *Repository) ResetPoints(ctx context.Context, memberID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"points_balance": 0,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendBadge adds a badge to the member unless already earned.
func (r *Repository) AppendBadge(ctx context.Context, memberID uuid.UUID, badge enums.MemberBadge) error {
	member, err := r.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	for _, earned := range member.Badges {
		if earned == badge.String() {
			return nil
		}
	}
	member.Badges = append(member.Badges, badge.String())
	return r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumns(map[string]any{
			"badges":     member.Badges,
			"updated_at": time.Now().UTC(),
		}).Error
}
