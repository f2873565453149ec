package members

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/pkg/db"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the member service.
type ServiceParams struct {
	Repo           *Repository
	Tx             txRunner
	WelcomeBalance int
}

// Service exposes member registration and profile reads.
type Service interface {
	Register(ctx context.Context, input CreateMemberInput) (MemberDTO, error)
	GetProfile(ctx context.Context, memberID uuid.UUID) (MemberDTO, error)
	ListMembers(ctx context.Context, cursor string, limit int) (MemberPageDTO, error)
}

type service struct {
	repo           *Repository
	tx             txRunner
	welcomeBalance int
}

// NewService builds a member service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.WelcomeBalance < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "welcome balance must not be negative")
	}
	return &service{
		repo:           params.Repo,
		tx:             params.Tx,
		welcomeBalance: params.WelcomeBalance,
	}, nil
}

// Register creates a member seeded with the welcome balance and starter badge.
func (s *service) Register(ctx context.Context, input CreateMemberInput) (MemberDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" {
		return MemberDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if username == "" {
		return MemberDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	member := &models.Member{
		ID:            uuid.New(),
		Email:         email,
		Username:      username,
		Role:          enums.MemberRoleMember,
		Standing:      enums.MemberStandingActive,
		PointsBalance: s.welcomeBalance,
		Badges:        []string{enums.MemberBadgeNewMember.String()},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, member); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or username already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
		}
		return nil
	})
	if err != nil {
		return MemberDTO{}, err
	}
	return ToDTO(member), nil
}

// GetProfile returns the dashboard projection for a member.
func (s *service) GetProfile(ctx context.Context, memberID uuid.UUID) (MemberDTO, error) {
	if memberID == uuid.Nil {
		return MemberDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "member not found")
		}
		return MemberDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	return ToDTO(member), nil
}

// ListMembers returns a cursor page of members, newest first.
func (s *service) ListMembers(ctx context.Context, cursor string, limit int) (MemberPageDTO, error) {
	rows, nextCursor, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return MemberPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	dtos := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return MemberPageDTO{Members: dtos, NextCursor: nextCursor}, nil
}
