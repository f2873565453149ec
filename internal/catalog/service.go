package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo       *Repository
	MemberRepo *members.Repository
}

// Service exposes catalog browsing and watch management.
type Service interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (ItemDTO, error)
	ListItems(ctx context.Context, filter ListFilter) (ItemPageDTO, error)
	Watch(ctx context.Context, itemID, memberID uuid.UUID) error
	Unwatch(ctx context.Context, itemID, memberID uuid.UUID) error
}

type service struct {
	repo       *Repository
	memberRepo *members.Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.MemberRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member repo is required")
	}
	return &service{repo: params.Repo, memberRepo: params.MemberRepo}, nil
}

// GetItem returns the projection for a single item.
func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (ItemDTO, error) {
	if itemID == uuid.Nil {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return ToDTO(item), nil
}

// ListItems returns a filtered, sorted catalog page.
func (s *service) ListItems(ctx context.Context, filter ListFilter) (ItemPageDTO, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return ItemPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown item category")
	}
	rows, nextCursor, err := s.repo.List(ctx, filter)
	if err != nil {
		return ItemPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return ItemPageDTO{Items: dtos, NextCursor: nextCursor}, nil
}

// Watch registers the member's interest in an item.
func (s *service) Watch(ctx context.Context, itemID, memberID uuid.UUID) error {
	if err := s.ensureActiveMember(ctx, memberID); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if err := s.repo.AddWatch(ctx, itemID, memberID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add watch")
	}
	return nil
}

// Unwatch drops the member's watch regardless of prior state.
func (s *service) Unwatch(ctx context.Context, itemID, memberID uuid.UUID) error {
	if err := s.ensureActiveMember(ctx, memberID); err != nil {
		return err
	}
	if err := s.repo.RemoveWatch(ctx, itemID, memberID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove watch")
	}
	return nil
}

func (s *service) ensureActiveMember(ctx context.Context, memberID uuid.UUID) error {
	if memberID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "member identity missing")
	}
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	if member.Standing == enums.MemberStandingBanned {
		return pkgerrors.New(pkgerrors.CodeMemberBanned, "member is banned")
	}
	return nil
}
