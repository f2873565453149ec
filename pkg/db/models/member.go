package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// Member is the canonical community identity plus its point ledger.
type Member struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string               `gorm:"column:email;type:text;not null;uniqueIndex"`
	Username      string               `gorm:"column:username;not null;uniqueIndex"`
	Role          enums.MemberRole     `gorm:"column:role;type:member_role;not null;default:member"`
	Standing      enums.MemberStanding `gorm:"column:standing;type:member_standing;not null;default:active"`
	PointsBalance int                  `gorm:"column:points_balance;not null;default:0"`
	ListingsCount int                  `gorm:"column:listings_count;not null;default:0"`
	TotalSwaps    int                  `gorm:"column:total_swaps;not null;default:0"`
	Badges        pq.StringArray       `gorm:"column:badges;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
