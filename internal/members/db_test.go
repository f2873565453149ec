package members

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

func setupMembersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:members_%s?mode=memory&cache=shared", uuid.NewString())
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
	require.NoError(t, conn.Exec(membersTable).Error)
	return conn
}

func newMember(t *testing.T, conn *gorm.DB, balance int) *models.Member {
	t.Helper()

	member := &models.Member{
		ID:            uuid.New(),
		Email:         fmt.Sprintf("rw_test_%s@example.com", uuid.NewString()),
		Username:      fmt.Sprintf("swapper_%s", uuid.NewString()[:8]),
		Role:          enums.MemberRoleMember,
		Standing:      enums.MemberStandingActive,
		PointsBalance: balance,
		Badges:        []string{},
	}
	require.NoError(t, conn.Create(member).Error)
	return member
}
