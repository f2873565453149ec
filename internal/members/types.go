package members

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
)

// CreateMemberInput carries the fields required to register a member.
type CreateMemberInput struct {
	Email    string
	Username string
}

// MemberDTO is the API projection of a member row.
type MemberDTO struct {
	ID            uuid.UUID            `json:"id"`
	Email         string               `json:"email"`
	Username      string               `json:"username"`
	Role          enums.MemberRole     `json:"role"`
	Standing      enums.MemberStanding `json:"standing"`
	PointsBalance int                  `json:"points_balance"`
	ListingsCount int                  `json:"listings_count"`
	TotalSwaps    int                  `json:"total_swaps"`
	Badges        []string             `json:"badges"`
	CreatedAt     time.Time            `json:"created_at"`
}

// MemberPageDTO is a cursor-paginated member listing.
type MemberPageDTO struct {
	Members    []MemberDTO `json:"members"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ToDTO converts a member model into its API projection.
func ToDTO(m *models.Member) MemberDTO {
	badges := make([]string, 0, len(m.Badges))
	badges = append(badges, m.Badges...)
	return MemberDTO{
		ID:            m.ID,
		Email:         m.Email,
		Username:      m.Username,
		Role:          m.Role,
		Standing:      m.Standing,
		PointsBalance: m.PointsBalance,
		ListingsCount: m.ListingsCount,
		TotalSwaps:    m.TotalSwaps,
		Badges:        badges,
		CreatedAt:     m.CreatedAt,
	}
}
