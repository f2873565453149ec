package moderation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/internal/catalog"
	"github.com/rewearhq/rewear-backend/internal/exchange"
	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the caller of a privileged operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.MemberRole
}

// ServiceParams groups dependencies for the moderation service.
type ServiceParams struct {
	CatalogRepo *catalog.Repository
	MemberRepo  *members.Repository
	SwapRepo    *exchange.Repository
	Tx          txRunner
}

// Service exposes the privileged item and member overrides. These bypass the
// eligibility gate but never the non-negative balance invariant.
type Service interface {
	ApproveItem(ctx context.Context, actor Actor, itemID uuid.UUID) (catalog.ItemDTO, error)
	RejectItem(ctx context.Context, actor Actor, itemID uuid.UUID) error
	FlagItem(ctx context.Context, actor Actor, itemID uuid.UUID) (catalog.ItemDTO, error)
	AdjustMember(ctx context.Context, actor Actor, memberID uuid.UUID, action enums.ModerationAction) (members.MemberDTO, error)
}

type service struct {
	catalogRepo *catalog.Repository
	memberRepo  *members.Repository
	swapRepo    *exchange.Repository
	tx          txRunner
}

// NewService builds a moderation service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.MemberRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member repo is required")
	}
	if params.SwapRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "swap repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{
		catalogRepo: params.CatalogRepo,
		memberRepo:  params.MemberRepo,
		swapRepo:    params.SwapRepo,
		tx:          params.Tx,
	}, nil
}

// ApproveItem clears a review flag, or declines a pending swap back to
// available when no flag is set. Approving an item with nothing to resolve
// fails with an invalid transition.
func (s *service) ApproveItem(ctx context.Context, actor Actor, itemID uuid.UUID) (catalog.ItemDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return catalog.ItemDTO{}, err
	}
	if itemID == uuid.Nil {
		return catalog.ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	var dto catalog.ItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		item, err := s.loadItem(ctx, catalogRepo, itemID)
		if err != nil {
			return err
		}

		switch {
		case item.UnderReview:
			if _, err := catalogRepo.SetUnderReview(ctx, itemID, false); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear review flag")
			}
			item.UnderReview = false

		case item.ExchangeStatus == enums.ExchangeStatusPendingSwap:
			won, err := catalogRepo.TransitionStatus(ctx, itemID, enums.ExchangeStatusPendingSwap, enums.ExchangeStatusAvailable)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release pending item")
			}
			if !won {
				return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item changed status")
			}
			if err := s.swapRepo.WithTx(tx).ResolvePendingByItem(ctx, itemID, enums.SwapRequestStatusRejected); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve swap request")
			}
			item.ExchangeStatus = enums.ExchangeStatusAvailable

		default:
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item has nothing to approve").
				WithDetails(map[string]any{"exchange_status": item.ExchangeStatus})
		}

		dto = catalog.ToDTO(item)
		return nil
	})
	if err != nil {
		return catalog.ItemDTO{}, err
	}
	return dto, nil
}

// RejectItem removes the item from the catalog. Pending swap requests resolve
// as rejected and the owner's listing count is released. A second reject on
// the same id fails with not found.
func (s *service) RejectItem(ctx context.Context, actor Actor, itemID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		item, err := s.loadItem(ctx, catalogRepo, itemID)
		if err != nil {
			return err
		}

		if err := s.swapRepo.WithTx(tx).ResolvePendingByItem(ctx, itemID, enums.SwapRequestStatusRejected); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve swap request")
		}

		deleted, err := catalogRepo.Delete(ctx, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		memberRepo := s.memberRepo.WithTx(tx)
		owner, err := memberRepo.FindByID(ctx, item.OwnerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
		}
		if owner != nil && owner.ListingsCount > 0 {
			if err := memberRepo.IncrementListings(ctx, owner.ID, -1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release listing count")
			}
		}
		return nil
	})
}

// FlagItem marks a non-terminal item for review without touching a live swap
// request.
func (s *service) FlagItem(ctx context.Context, actor Actor, itemID uuid.UUID) (catalog.ItemDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return catalog.ItemDTO{}, err
	}
	if itemID == uuid.Nil {
		return catalog.ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	var dto catalog.ItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		item, err := s.loadItem(ctx, catalogRepo, itemID)
		if err != nil {
			return err
		}
		if item.ExchangeStatus == enums.ExchangeStatusExchanged {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item has already been exchanged")
		}
		if item.UnderReview {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item is already under review")
		}
		if _, err := catalogRepo.SetUnderReview(ctx, itemID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set review flag")
		}
		item.UnderReview = true
		dto = catalog.ToDTO(item)
		return nil
	})
	if err != nil {
		return catalog.ItemDTO{}, err
	}
	return dto, nil
}

// AdjustMember applies a privileged ledger or standing change. Banning a
// member also reserves their live listings and rejects the swap requests
// against them.
func (s *service) AdjustMember(ctx context.Context, actor Actor, memberID uuid.UUID, action enums.ModerationAction) (members.MemberDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return members.MemberDTO{}, err
	}
	if memberID == uuid.Nil {
		return members.MemberDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	if !action.IsValid() {
		return members.MemberDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown moderation action")
	}

	var dto members.MemberDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		memberRepo := s.memberRepo.WithTx(tx)

		var found bool
		var err error
		switch action {
		case enums.ModerationActionBan:
			found, err = memberRepo.UpdateStanding(ctx, memberID, enums.MemberStandingBanned)
		case enums.ModerationActionWarn:
			found, err = memberRepo.UpdateStanding(ctx, memberID, enums.MemberStandingWarned)
		case enums.ModerationActionResetPoints:
			found, err = memberRepo.ResetPoints(ctx, memberID)
		case enums.ModerationActionPromote:
			found, err = memberRepo.UpdateRole(ctx, memberID, enums.MemberRoleAdmin)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust member")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}

		if action == enums.ModerationActionBan {
			if err := s.swapRepo.WithTx(tx).ResolvePendingByOwner(ctx, memberID, enums.SwapRequestStatusRejected); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve swap requests")
			}
			if _, err := s.catalogRepo.WithTx(tx).ReserveByOwner(ctx, memberID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve listings")
			}
		}

		member, err := memberRepo.FindByID(ctx, memberID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload member")
		}
		dto = members.ToDTO(member)
		return nil
	})
	if err != nil {
		return members.MemberDTO{}, err
	}
	return dto, nil
}

func (s *service) loadItem(ctx context.Context, catalogRepo *catalog.Repository, itemID uuid.UUID) (*models.Item, error) {
	item, err := catalogRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func requireAdmin(actor Actor) error {
	if actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	if actor.Role != enums.MemberRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return nil
}
