package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rewearhq/rewear-backend/pkg/db/models"
	"github.com/rewearhq/rewear-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	membersTable := `
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
);`
	itemsTable := `
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
);`
	itemWatchesTable := `
CREATE TABLE IF NOT EXISTS item_watches (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
  member_id TEXT NOT NULL REFERENCES members (id),
  created_at DATETIME,
  UNIQUE (item_id, member_id)
);`
	require.NoError(t, conn.Exec(membersTable).Error)
	require.NoError(t, conn.Exec(itemsTable).Error)
	require.NoError(t, conn.Exec(itemWatchesTable).Error)
	return conn
}

func newTestMember(t *testing.T, conn *gorm.DB, standing enums.MemberStanding) *models.Member {
	t.Helper()

	member := &models.Member{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("rw_test_%s@example.com", uuid.NewString()),
		Username: fmt.Sprintf("swapper_%s", uuid.NewString()[:8]),
		Role:     enums.MemberRoleMember,
		Standing: standing,
		Badges:   []string{},
	}
	require.NoError(t, conn.Create(member).Error)
	return member
}

func newTestItem(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, category enums.ItemCategory, points int) *models.Item {
	t.Helper()

	item := &models.Item{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Title:          "Denim Jacket",
		Category:       category,
		Size:           "M",
		Condition:      enums.ItemConditionGood,
		Points:         points,
		Tags:           []string{"denim"},
		ImageURLs:      []string{},
		ExchangeStatus: enums.ExchangeStatusAvailable,
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}
