package exchange

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/internal/catalog"
	"github.com/rewearhq/rewear-backend/internal/eligibility"
	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
	"github.com/rewearhq/rewear-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the exchange service.
type ServiceParams struct {
	CatalogRepo  *catalog.Repository
	MemberRepo   *members.Repository
	SwapRepo     *Repository
	Tx           txRunner
	Metrics      *metrics.ExchangeMetrics
	ListingBonus int
}

// Service applies the item lifecycle jointly with the member ledger. Every
// mutation runs inside one transaction; eligibility is re-checked against the
// transactional snapshot and the status/balance guards decide the winner.
type Service interface {
	ListItem(ctx context.Context, input catalog.CreateItemInput) (catalog.ItemDTO, error)
	RequestSwap(ctx context.Context, requesterID, itemID uuid.UUID) (RequestSwapResult, error)
	Redeem(ctx context.Context, requesterID, itemID uuid.UUID) (RedeemResult, error)
}

type service struct {
	catalogRepo  *catalog.Repository
	memberRepo   *members.Repository
	swapRepo     *Repository
	tx           txRunner
	metrics      *metrics.ExchangeMetrics
	listingBonus int
}

// NewService builds an exchange service with the required dependencies.
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
	bonus := params.ListingBonus
	if bonus == 0 {
		bonus = ListingBonus
	}
	if bonus < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing bonus must not be negative")
	}
	return &service{
		catalogRepo:  params.CatalogRepo,
		memberRepo:   params.MemberRepo,
		swapRepo:     params.SwapRepo,
		tx:           params.Tx,
		metrics:      params.Metrics,
		listingBonus: bonus,
	}, nil
}

// ListItem creates an available item and applies the listing side effects on
// the owner's ledger: listings count, flat bonus credit and the power lister
// badge. All of it commits or none of it does.
func (s *service) ListItem(ctx context.Context, input catalog.CreateItemInput) (catalog.ItemDTO, error) {
	if err := validateCreateItemInput(input); err != nil {
		return catalog.ItemDTO{}, err
	}

	item := &models.Item{
		ID:             uuid.New(),
		OwnerID:        input.OwnerID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Category:       input.Category,
		Size:           strings.TrimSpace(input.Size),
		Condition:      input.Condition,
		Points:         input.Points,
		Tags:           input.Tags,
		ImageURLs:      input.ImageURLs,
		PrimaryImage:   input.PrimaryImage,
		ExchangeStatus: enums.ExchangeStatusAvailable,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.ImageURLs == nil {
		item.ImageURLs = []string{}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		memberRepo := s.memberRepo.WithTx(tx)
		owner, err := memberRepo.FindByID(ctx, input.OwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "member not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
		}
		if owner.Standing == enums.MemberStandingBanned {
			return pkgerrors.New(pkgerrors.CodeMemberBanned, "member is banned")
		}

		if _, err := s.catalogRepo.WithTx(tx).Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
		}
		if err := memberRepo.IncrementListings(ctx, owner.ID, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment listings")
		}
		if s.listingBonus > 0 {
			if err := memberRepo.Credit(ctx, owner.ID, s.listingBonus); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit listing bonus")
			}
		}
		if owner.ListingsCount+1 >= PowerListerThreshold {
			if err := memberRepo.AppendBadge(ctx, owner.ID, enums.MemberBadgePowerLister); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "award power lister badge")
			}
		}
		return nil
	})
	if err != nil {
		return catalog.ItemDTO{}, err
	}

	s.metrics.IncListing()
	return catalog.ToDTO(item), nil
}

// RequestSwap flags an available item as pending and records the durable
// swap request. The guarded status transition keeps at most one live request
// per item.
func (s *service) RequestSwap(ctx context.Context, requesterID, itemID uuid.UUID) (RequestSwapResult, error) {
	if requesterID == uuid.Nil {
		return RequestSwapResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	if itemID == uuid.Nil {
		return RequestSwapResult{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	var result RequestSwapResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)

		member, item, err := s.loadSnapshot(ctx, tx, requesterID, itemID)
		if err != nil {
			return err
		}
		if err := eligibility.CheckRequestSwap(member, item); err != nil {
			return err
		}

		won, err := catalogRepo.TransitionStatus(ctx, itemID, enums.ExchangeStatusAvailable, enums.ExchangeStatusPendingSwap)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition item")
		}
		if !won {
			return s.mapLostTransition(ctx, catalogRepo, itemID)
		}

		req := &models.SwapRequest{
			ID:          uuid.New(),
			ItemID:      itemID,
			RequesterID: requesterID,
			OwnerID:     item.OwnerID,
			Status:      enums.SwapRequestStatusPending,
		}
		if _, err := s.swapRepo.WithTx(tx).Create(ctx, req); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create swap request")
		}

		item.ExchangeStatus = enums.ExchangeStatusPendingSwap
		result = RequestSwapResult{Item: catalog.ToDTO(item), SwapRequest: toSwapRequestDTO(req)}
		return nil
	})
	if err != nil {
		s.metrics.IncSwapRequest(outcomeLabel(err))
		return RequestSwapResult{}, err
	}

	s.metrics.IncSwapRequest("ok")
	return result, nil
}

// Redeem exchanges an item for points. The status guard and the balance guard
// both sit inside the transaction, so concurrent redeems on one item resolve
// to a single winner and the ledger never goes negative.
func (s *service) Redeem(ctx context.Context, requesterID, itemID uuid.UUID) (RedeemResult, error) {
	if requesterID == uuid.Nil {
		return RedeemResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	if itemID == uuid.Nil {
		return RedeemResult{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	var result RedeemResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		memberRepo := s.memberRepo.WithTx(tx)

		member, item, err := s.loadSnapshot(ctx, tx, requesterID, itemID)
		if err != nil {
			return err
		}
		if err := eligibility.CheckRedeem(member, item); err != nil {
			return err
		}

		won, err := catalogRepo.TransitionStatusFromAny(ctx, itemID,
			[]enums.ExchangeStatus{enums.ExchangeStatusAvailable, enums.ExchangeStatusPendingSwap},
			enums.ExchangeStatusExchanged)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition item")
		}
		if !won {
			return s.mapLostTransition(ctx, catalogRepo, itemID)
		}

		debited, err := memberRepo.Debit(ctx, requesterID, item.Points)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit points")
		}
		if !debited {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "balance does not cover the item").
				WithDetails(map[string]any{"required": item.Points})
		}
		if err := memberRepo.IncrementSwaps(ctx, requesterID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment swaps")
		}
		if member.TotalSwaps == 0 {
			if err := memberRepo.AppendBadge(ctx, requesterID, enums.MemberBadgeFirstSwap); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "award first swap badge")
			}
		}

		// A pending request by someone else loses to the redemption.
		resolution := enums.SwapRequestStatusRejected
		if pending, err := s.swapRepo.WithTx(tx).FindPendingByItem(ctx, itemID); err == nil && pending.RequesterID == requesterID {
			resolution = enums.SwapRequestStatusAccepted
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending swap request")
		}
		if err := s.swapRepo.WithTx(tx).ResolvePendingByItem(ctx, itemID, resolution); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve swap request")
		}

		updatedMember, err := memberRepo.FindByID(ctx, requesterID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload member")
		}
		item.ExchangeStatus = enums.ExchangeStatusExchanged
		result = RedeemResult{Item: catalog.ToDTO(item), Member: members.ToDTO(updatedMember)}
		return nil
	})
	if err != nil {
		s.metrics.IncRedemption(outcomeLabel(err))
		return RedeemResult{}, err
	}

	s.metrics.IncRedemption("ok")
	return result, nil
}

func (s *service) loadSnapshot(ctx context.Context, tx *gorm.DB, memberID, itemID uuid.UUID) (*models.Member, *models.Item, error) {
	member, err := s.memberRepo.WithTx(tx).FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "member not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	item, err := s.catalogRepo.WithTx(tx).FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return member, item, nil
}

func (s *service) mapLostTransition(ctx context.Context, catalogRepo *catalog.Repository, itemID uuid.UUID) error {
	item, err := catalogRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	if item.ExchangeStatus == enums.ExchangeStatusExchanged {
		return pkgerrors.New(pkgerrors.CodeAlreadyExchanged, "item has already been exchanged")
	}
	if item.UnderReview {
		return pkgerrors.New(pkgerrors.CodeNotEligible, "item is under review")
	}
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "item changed status").
		WithDetails(map[string]any{"exchange_status": item.ExchangeStatus})
}

func validateCreateItemInput(input catalog.CreateItemInput) error {
	if input.OwnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item category")
	}
	if !input.Condition.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item condition")
	}
	if strings.TrimSpace(input.Size) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}
	if input.Points <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points must be positive")
	}
	return nil
}

func outcomeLabel(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return "error"
}
