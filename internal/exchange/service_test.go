package exchange

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/internal/catalog"
	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewearhq/rewear-backend/pkg/errors"
)

func listInput(ownerID uuid.UUID, points int) catalog.CreateItemInput {
	return catalog.CreateItemInput{
		OwnerID:   ownerID,
		Title:     "Corduroy Shirt",
		Category:  enums.ItemCategoryTops,
		Size:      "M",
		Condition: enums.ItemConditionGood,
		Points:    points,
	}
}

func TestListItemCreditsBonusAtomically(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 50, 0)

	dto, err := svc.ListItem(ctx, listInput(owner.ID, 30))
	if err != nil {
		t.Fatalf("list item: %v", err)
	}
	if dto.ExchangeStatus != enums.ExchangeStatusAvailable {
		t.Fatalf("status = %s, want available", dto.ExchangeStatus)
	}

	reloaded, err := members.NewRepository(conn).FindByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("reload owner: %v", err)
	}
	if reloaded.PointsBalance != 60 {
		t.Fatalf("balance = %d, want 60 after +10 bonus", reloaded.PointsBalance)
	}
	if reloaded.ListingsCount != 1 {
		t.Fatalf("listings = %d, want 1", reloaded.ListingsCount)
	}
}

func TestListItemRejectsUnknownMember(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	_, err := svc.ListItem(context.Background(), listInput(uuid.New(), 30))
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListItemRejectsBannedMember(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	banned := seedMember(t, conn, 50, 0)
	if err := conn.Model(banned).UpdateColumn("standing", enums.MemberStandingBanned).Error; err != nil {
		t.Fatal(err)
	}

	_, err := svc.ListItem(context.Background(), listInput(banned.ID, 30))
	if !pkgerrors.HasCode(err, pkgerrors.CodeMemberBanned) {
		t.Fatalf("expected member banned, got %v", err)
	}
}

func TestListItemAwardsPowerListerBadge(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, PowerListerThreshold-1)

	if _, err := svc.ListItem(ctx, listInput(owner.ID, 20)); err != nil {
		t.Fatalf("list item: %v", err)
	}

	reloaded, err := members.NewRepository(conn).FindByID(ctx, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, badge := range reloaded.Badges {
		if badge == enums.MemberBadgePowerLister.String() {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected power lister badge at %d listings, got %v", PowerListerThreshold, reloaded.Badges)
	}
}

// Scenario: a member with no listings may not request a swap.
func TestRequestSwapRequiresListing(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	owner := seedMember(t, conn, 0, 1)
	requester := seedMember(t, conn, 50, 0)
	item := seedItem(t, conn, owner.ID, 30)

	_, err := svc.RequestSwap(context.Background(), requester.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotEligible) {
		t.Fatalf("expected not eligible, got %v", err)
	}
}

// Scenario: after listing an item the member can request a swap and the
// target item becomes pending.
func TestRequestSwapTransitionsToPending(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	requester := seedMember(t, conn, 50, 0)
	item := seedItem(t, conn, owner.ID, 30)

	if _, err := svc.ListItem(ctx, listInput(requester.ID, 20)); err != nil {
		t.Fatalf("list item: %v", err)
	}

	result, err := svc.RequestSwap(ctx, requester.ID, item.ID)
	if err != nil {
		t.Fatalf("request swap: %v", err)
	}
	if result.Item.ExchangeStatus != enums.ExchangeStatusPendingSwap {
		t.Fatalf("status = %s, want pending_swap", result.Item.ExchangeStatus)
	}
	if result.SwapRequest.Status != enums.SwapRequestStatusPending {
		t.Fatalf("request status = %s, want pending", result.SwapRequest.Status)
	}

	// only one pending request per item
	_, err = svc.RequestSwap(ctx, requester.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition on second request, got %v", err)
	}
}

func TestRequestSwapOwnItemFails(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	owner := seedMember(t, conn, 50, 1)
	item := seedItem(t, conn, owner.ID, 30)

	_, err := svc.RequestSwap(context.Background(), owner.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotEligible) {
		t.Fatalf("expected not eligible, got %v", err)
	}
}

// Scenario: an uncovered redeem fails and leaves the balance untouched.
func TestRedeemInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	requester := seedMember(t, conn, 45, 0)
	item := seedItem(t, conn, owner.ID, 60)

	_, err := svc.Redeem(ctx, requester.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	reloadedMember, err := members.NewRepository(conn).FindByID(ctx, requester.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloadedMember.PointsBalance != 45 {
		t.Fatalf("balance = %d, want unchanged 45", reloadedMember.PointsBalance)
	}
	reloadedItem, err := catalog.NewRepository(conn).FindByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloadedItem.ExchangeStatus != enums.ExchangeStatusAvailable {
		t.Fatalf("status = %s, want available", reloadedItem.ExchangeStatus)
	}
}

// Scenario: a covered redeem debits, exchanges and counts the swap; a second
// redeem on the same item fails with AlreadyExchanged.
func TestRedeemDebitsAndExchanges(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	requester := seedMember(t, conn, 60, 0)
	other := seedMember(t, conn, 200, 0)
	item := seedItem(t, conn, owner.ID, 45)

	result, err := svc.Redeem(ctx, requester.ID, item.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if result.Member.PointsBalance != 15 {
		t.Fatalf("balance = %d, want 15", result.Member.PointsBalance)
	}
	if result.Item.ExchangeStatus != enums.ExchangeStatusExchanged {
		t.Fatalf("status = %s, want exchanged", result.Item.ExchangeStatus)
	}
	if result.Member.TotalSwaps != 1 {
		t.Fatalf("total swaps = %d, want 1", result.Member.TotalSwaps)
	}
	foundBadge := false
	for _, badge := range result.Member.Badges {
		if badge == enums.MemberBadgeFirstSwap.String() {
			foundBadge = true
		}
	}
	if !foundBadge {
		t.Fatalf("expected first swap badge, got %v", result.Member.Badges)
	}

	_, err = svc.Redeem(ctx, other.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeAlreadyExchanged) {
		t.Fatalf("expected already exchanged, got %v", err)
	}
	reloadedOther, err := members.NewRepository(conn).FindByID(ctx, other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloadedOther.PointsBalance != 200 {
		t.Fatalf("loser balance = %d, want unchanged 200", reloadedOther.PointsBalance)
	}
}

// Redemption is allowed while a swap request is outstanding; the pending
// request resolves against the redemption.
func TestRedeemResolvesPendingSwapRequest(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	swapper := seedMember(t, conn, 50, 1)
	redeemer := seedMember(t, conn, 100, 0)
	item := seedItem(t, conn, owner.ID, 40)

	if _, err := svc.RequestSwap(ctx, swapper.ID, item.ID); err != nil {
		t.Fatalf("request swap: %v", err)
	}
	if _, err := svc.Redeem(ctx, redeemer.ID, item.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	var requests []models.SwapRequest
	if err := conn.Where("item_id = ?", item.ID).Find(&requests).Error; err != nil {
		t.Fatal(err)
	}
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(requests))
	}
	if requests[0].Status != enums.SwapRequestStatusRejected {
		t.Fatalf("request status = %s, want rejected", requests[0].Status)
	}
	if requests[0].ResolvedAt == nil {
		t.Fatal("expected resolved_at to be set")
	}
}

func TestRedeemByPendingRequesterAcceptsRequest(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	requester := seedMember(t, conn, 100, 1)
	item := seedItem(t, conn, owner.ID, 40)

	if _, err := svc.RequestSwap(ctx, requester.ID, item.ID); err != nil {
		t.Fatalf("request swap: %v", err)
	}
	if _, err := svc.Redeem(ctx, requester.ID, item.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	var request models.SwapRequest
	if err := conn.Where("item_id = ?", item.ID).First(&request).Error; err != nil {
		t.Fatal(err)
	}
	if request.Status != enums.SwapRequestStatusAccepted {
		t.Fatalf("request status = %s, want accepted", request.Status)
	}
}

func TestRedeemOwnItemFails(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	owner := seedMember(t, conn, 100, 1)
	item := seedItem(t, conn, owner.ID, 30)

	_, err := svc.Redeem(context.Background(), owner.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotEligible) {
		t.Fatalf("expected not eligible, got %v", err)
	}
}

func TestRedeemBannedMemberFails(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	owner := seedMember(t, conn, 0, 1)
	banned := seedMember(t, conn, 100, 1)
	if err := conn.Model(banned).UpdateColumn("standing", enums.MemberStandingBanned).Error; err != nil {
		t.Fatal(err)
	}
	item := seedItem(t, conn, owner.ID, 30)

	_, err := svc.Redeem(context.Background(), banned.ID, item.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeMemberBanned) {
		t.Fatalf("expected member banned, got %v", err)
	}
}

func TestRedeemUnknownItemFails(t *testing.T) {
	conn := setupExchangeTestDB(t)
	svc := newExchangeService(t, conn)

	requester := seedMember(t, conn, 100, 1)

	_, err := svc.Redeem(context.Background(), requester.ID, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// singleConn serializes the pool so concurrent service calls contend on the
// status guard rather than on sqlite's file lock.
func singleConn(t *testing.T, conn *gorm.DB) {
	t.Helper()

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
}

func TestConcurrentRedeemsSingleWinner(t *testing.T) {
	conn := setupExchangeTestDB(t)
	singleConn(t, conn)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	item := seedItem(t, conn, owner.ID, 30)

	const contenders = 4
	callers := make([]*models.Member, contenders)
	for i := range callers {
		callers[i] = seedMember(t, conn, 50, 1)
	}

	var wg sync.WaitGroup
	outcomes := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, outcomes[i] = svc.Redeem(ctx, callers[i].ID, item.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range outcomes {
		if err == nil {
			winners++
			continue
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeAlreadyExchanged) &&
			!pkgerrors.HasCode(err, pkgerrors.CodeInvalidTransition) {
			t.Fatalf("caller %d: unexpected loss reason %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	reloaded, err := catalog.NewRepository(conn).FindByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.ExchangeStatus != enums.ExchangeStatusExchanged {
		t.Fatalf("status = %s, want exchanged", reloaded.ExchangeStatus)
	}

	memberRepo := members.NewRepository(conn)
	debited := 0
	for i, caller := range callers {
		m, err := memberRepo.FindByID(ctx, caller.ID)
		if err != nil {
			t.Fatal(err)
		}
		if m.PointsBalance < 0 {
			t.Fatalf("caller %d balance went negative: %d", i, m.PointsBalance)
		}
		switch m.PointsBalance {
		case 20:
			debited++
		case 50:
		default:
			t.Fatalf("caller %d balance = %d, want 20 or 50", i, m.PointsBalance)
		}
	}
	if debited != 1 {
		t.Fatalf("debited callers = %d, want exactly 1", debited)
	}
}

func TestConcurrentSwapRequestsSingleWinner(t *testing.T) {
	conn := setupExchangeTestDB(t)
	singleConn(t, conn)
	svc := newExchangeService(t, conn)
	ctx := context.Background()

	owner := seedMember(t, conn, 0, 1)
	item := seedItem(t, conn, owner.ID, 30)

	const contenders = 4
	callers := make([]*models.Member, contenders)
	for i := range callers {
		callers[i] = seedMember(t, conn, 0, 1)
	}

	var wg sync.WaitGroup
	outcomes := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, outcomes[i] = svc.RequestSwap(ctx, callers[i].ID, item.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range outcomes {
		if err == nil {
			winners++
			continue
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidTransition) {
			t.Fatalf("caller %d: unexpected loss reason %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	var pendingCount int64
	if err := conn.Model(&models.SwapRequest{}).
		Where("item_id = ? AND status = ?", item.ID, enums.SwapRequestStatusPending).
		Count(&pendingCount).Error; err != nil {
		t.Fatal(err)
	}
	if pendingCount != 1 {
		t.Fatalf("pending requests = %d, want exactly 1", pendingCount)
	}
}
