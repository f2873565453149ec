package members

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rewearhq/rewear-backend/pkg/db"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()

	conn := setupMembersTestDB(t)
	client, err := db.NewWithConn(conn)
	if err != nil {
		t.Fatalf("db client: %v", err)
	}
	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{Repo: repo, Tx: client, WelcomeBalance: 50})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestRegisterSeedsWelcomeBalance(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, CreateMemberInput{Email: "Ana@Example.com", Username: "ana"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.PointsBalance != 50 {
		t.Fatalf("points balance = %d, want 50", dto.PointsBalance)
	}
	if dto.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", dto.Email)
	}
	if len(dto.Badges) != 1 || dto.Badges[0] != "new_member" {
		t.Fatalf("badges = %v, want [new_member]", dto.Badges)
	}

	stored, err := repo.FindByID(ctx, dto.ID)
	if err != nil {
		t.Fatalf("find member: %v", err)
	}
	if stored.PointsBalance != 50 {
		t.Fatalf("stored balance = %d, want 50", stored.PointsBalance)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, CreateMemberInput{Email: "dup@example.com", Username: "first"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, CreateMemberInput{Email: "dup@example.com", Username: "second"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), CreateMemberInput{Username: "nomail"}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Register(context.Background(), CreateMemberInput{Email: "a@b.c"}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProfileUnknownMember(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMembersReturnsPage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"ana", "ben", "cleo"} {
		if _, err := svc.Register(ctx, CreateMemberInput{Email: name + "@example.com", Username: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	page, err := svc.ListMembers(ctx, "", 10)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(page.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(page.Members))
	}
}
