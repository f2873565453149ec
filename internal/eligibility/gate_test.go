package eligibility

import (
	"testing"

	"github.com/google/uuid"

	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

func activeMember(balance, listings int) *models.Member {
	return &models.Member{
		ID:            uuid.New(),
		Standing:      enums.MemberStandingActive,
		PointsBalance: balance,
		ListingsCount: listings,
	}
}

func availableItem(ownerID uuid.UUID, points int) *models.Item {
	return &models.Item{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Points:         points,
		ExchangeStatus: enums.ExchangeStatusAvailable,
	}
}

func TestCheckRequestSwap(t *testing.T) {
	owner := activeMember(0, 1)

	tests := []struct {
		name     string
		member   *models.Member
		mutate   func(member *models.Member, item *models.Item)
		wantCode pkgerrors.Code
		wantOK   bool
	}{
		{
			name:   "eligible member on available item",
			member: activeMember(50, 1),
			wantOK: true,
		},
		{
			name:     "zero listings",
			member:   activeMember(50, 0),
			wantCode: pkgerrors.CodeNotEligible,
		},
		{
			name:   "banned member",
			member: activeMember(50, 1),
			mutate: func(member *models.Member, _ *models.Item) {
				member.Standing = enums.MemberStandingBanned
			},
			wantCode: pkgerrors.CodeMemberBanned,
		},
		{
			name:   "own item",
			member: activeMember(50, 1),
			mutate: func(member *models.Member, item *models.Item) {
				item.OwnerID = member.ID
			},
			wantCode: pkgerrors.CodeNotEligible,
		},
		{
			name:   "pending item",
			member: activeMember(50, 1),
			mutate: func(_ *models.Member, item *models.Item) {
				item.ExchangeStatus = enums.ExchangeStatusPendingSwap
			},
			wantCode: pkgerrors.CodeInvalidTransition,
		},
		{
			name:   "exchanged item",
			member: activeMember(50, 1),
			mutate: func(_ *models.Member, item *models.Item) {
				item.ExchangeStatus = enums.ExchangeStatusExchanged
			},
			wantCode: pkgerrors.CodeAlreadyExchanged,
		},
		{
			name:   "item under review",
			member: activeMember(50, 1),
			mutate: func(_ *models.Member, item *models.Item) {
				item.UnderReview = true
			},
			wantCode: pkgerrors.CodeNotEligible,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := availableItem(owner.ID, 30)
			if tc.mutate != nil {
				tc.mutate(tc.member, item)
			}

			err := CheckRequestSwap(tc.member, item)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("expected eligible, got %v", err)
				}
				if !CanRequestSwap(tc.member, item) {
					t.Fatal("CanRequestSwap disagrees with CheckRequestSwap")
				}
				return
			}
			if !pkgerrors.HasCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
			if CanRequestSwap(tc.member, item) {
				t.Fatal("CanRequestSwap should be false")
			}
		})
	}
}

func TestCheckRedeem(t *testing.T) {
	owner := activeMember(0, 1)

	tests := []struct {
		name     string
		member   *models.Member
		mutate   func(member *models.Member, item *models.Item)
		wantCode pkgerrors.Code
		wantOK   bool
	}{
		{
			name:   "covered balance",
			member: activeMember(60, 0),
			wantOK: true,
		},
		{
			name:     "insufficient balance",
			member:   activeMember(45, 0),
			wantCode: pkgerrors.CodeInsufficientBalance,
			mutate: func(_ *models.Member, item *models.Item) {
				item.Points = 60
			},
		},
		{
			name:   "redeem allowed while swap pending",
			member: activeMember(60, 0),
			mutate: func(_ *models.Member, item *models.Item) {
				item.ExchangeStatus = enums.ExchangeStatusPendingSwap
			},
			wantOK: true,
		},
		{
			name:   "exchanged item",
			member: activeMember(60, 0),
			mutate: func(_ *models.Member, item *models.Item) {
				item.ExchangeStatus = enums.ExchangeStatusExchanged
			},
			wantCode: pkgerrors.CodeAlreadyExchanged,
		},
		{
			name:   "reserved item",
			member: activeMember(60, 0),
			mutate: func(_ *models.Member, item *models.Item) {
				item.ExchangeStatus = enums.ExchangeStatusReserved
			},
			wantCode: pkgerrors.CodeInvalidTransition,
		},
		{
			name:   "banned member",
			member: activeMember(60, 0),
			mutate: func(member *models.Member, _ *models.Item) {
				member.Standing = enums.MemberStandingBanned
			},
			wantCode: pkgerrors.CodeMemberBanned,
		},
		{
			name:   "own item",
			member: activeMember(60, 0),
			mutate: func(member *models.Member, item *models.Item) {
				item.OwnerID = member.ID
			},
			wantCode: pkgerrors.CodeNotEligible,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := availableItem(owner.ID, 30)
			if tc.mutate != nil {
				tc.mutate(tc.member, item)
			}

			err := CheckRedeem(tc.member, item)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("expected eligible, got %v", err)
				}
				if !CanRedeem(tc.member, item) {
					t.Fatal("CanRedeem disagrees with CheckRedeem")
				}
				return
			}
			if !pkgerrors.HasCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
			if CanRedeem(tc.member, item) {
				t.Fatal("CanRedeem should be false")
			}
		})
	}
}

func TestNilSnapshots(t *testing.T) {
	member := activeMember(60, 1)
	item := availableItem(uuid.New(), 30)

	if err := CheckRequestSwap(nil, item); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := CheckRedeem(member, nil); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
