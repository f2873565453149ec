package exchange

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/internal/catalog"
	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/pkg/db"
	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
)

func setupExchangeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:exchange_%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS members (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL DEFAULT 'member',
  standing TEXT NOT NULL DEFAULT 'active',
  points_balance INTEGER NOT NULL DEFAULT 0,
  listings_count INTEGER NOT NULL DEFAULT 0,
  total_swaps INTEGER NOT NULL DEFAULT 0,
  badges TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL REFERENCES members (id),
  title TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  size TEXT NOT NULL,
  condition TEXT NOT NULL,
  points INTEGER NOT NULL,
  tags TEXT NOT NULL DEFAULT '{}',
  image_urls TEXT NOT NULL DEFAULT '{}',
  primary_image TEXT,
  exchange_status TEXT NOT NULL DEFAULT 'available',
  under_review INTEGER NOT NULL DEFAULT 0,
  watcher_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS swap_requests (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL REFERENCES items (id),
  requester_id TEXT NOT NULL REFERENCES members (id),
  owner_id TEXT NOT NULL REFERENCES members (id),
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  resolved_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newExchangeService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	client, err := db.NewWithConn(conn)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		CatalogRepo: catalog.NewRepository(conn),
		MemberRepo:  members.NewRepository(conn),
		SwapRepo:    NewRepository(conn),
		Tx:          client,
	})
	require.NoError(t, err)
	return svc
}

func seedMember(t *testing.T, conn *gorm.DB, balance, listings int) *models.Member {
	t.Helper()

	member := &models.Member{
		ID:            uuid.New(),
		Email:         fmt.Sprintf("rw_test_%s@example.com", uuid.NewString()),
		Username:      fmt.Sprintf("swapper_%s", uuid.NewString()[:8]),
		Role:          enums.MemberRoleMember,
		Standing:      enums.MemberStandingActive,
		PointsBalance: balance,
		ListingsCount: listings,
		Badges:        []string{},
	}
	require.NoError(t, conn.Create(member).Error)
	return member
}

func seedItem(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, points int) *models.Item {
	t.Helper()

	item := &models.Item{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Title:          "Wool Coat",
		Category:       enums.ItemCategoryOuterwear,
		Size:           "L",
		Condition:      enums.ItemConditionExcellent,
		Points:         points,
		Tags:           []string{},
		ImageURLs:      []string{},
		ExchangeStatus: enums.ExchangeStatusAvailable,
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}
