// Package eligibility holds the pure precondition checks separating "may this
// action be attempted" from "apply this action". The checks evaluate snapshots
// only; callers re-run them inside the mutating transaction.
package eligibility

import (
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

// CheckRequestSwap reports why a member may not request a swap for an item,
// or nil when the request is allowed.
func CheckRequestSwap(member *models.Member, item *models.Item) error {
	if member == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if member.Standing == enums.MemberStandingBanned {
		return pkgerrors.New(pkgerrors.CodeMemberBanned, "member is banned")
	}
	if item.OwnerID == member.ID {
		return pkgerrors.New(pkgerrors.CodeNotEligible, "cannot act on your own item")
	}
	if member.ListingsCount <= 0 {
		return pkgerrors.New(pkgerrors.CodeNotEligible, "list an item before requesting swaps")
	}
	if item.UnderReview {
		return pkgerrors.New(pkgerrors.CodeNotEligible, "item is under review")
	}
	switch item.ExchangeStatus {
	case enums.ExchangeStatusAvailable:
		return nil
	case enums.ExchangeStatusExchanged:
		return pkgerrors.New(pkgerrors.CodeAlreadyExchanged, "item has already been exchanged")
	default:
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item is not available").
			WithDetails(map[string]any{"exchange_status": item.ExchangeStatus})
	}
}

// CheckRedeem reports why a member may not redeem an item, or nil when the
// redemption is allowed. Redemption is permitted while a swap request is
// outstanding.
func CheckRedeem(member *models.Member, item *models.Item) error {
	if member == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if member.Standing == enums.MemberStandingBanned {
		return pkgerrors.New(pkgerrors.CodeMemberBanned, "member is banned")
	}
	if item.OwnerID == member.ID {
		return pkgerrors.New(pkgerrors.CodeNotEligible, "cannot act on your own item")
	}
	if item.UnderReview {
		return pkgerrors.New(pkgerrors.CodeNotEligible, "item is under review")
	}
	switch item.ExchangeStatus {
	case enums.ExchangeStatusExchanged:
		return pkgerrors.New(pkgerrors.CodeAlreadyExchanged, "item has already been exchanged")
	case enums.ExchangeStatusReserved:
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item is reserved").
			WithDetails(map[string]any{"exchange_status": item.ExchangeStatus})
	}
	if member.PointsBalance < item.Points {
		return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "balance does not cover the item").
			WithDetails(map[string]any{"balance": member.PointsBalance, "required": item.Points})
	}
	return nil
}

// CanRequestSwap is the boolean form of CheckRequestSwap.
func CanRequestSwap(member *models.Member, item *models.Item) bool {
	return CheckRequestSwap(member, item) == nil
}

// CanRedeem is the boolean form of CheckRedeem.
func CanRedeem(member *models.Member, item *models.Item) bool {
	return CheckRedeem(member, item) == nil
}
