package treasury

import (
	"testing"

	"buyback-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTreasuryTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.CashAccount{}))
	return db
}

func TestTransferCreatesAndAccumulates(t *testing.T) {
	db := setupTreasuryTest(t)
	tr := CashTransferer{}

	require.NoError(t, tr.Transfer(db, "alice", 15))
	require.NoError(t, tr.Transfer(db, "alice", 5))

	bal, err := BalanceOf(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(20), bal)
}

func TestBalanceOf_UnknownAddressIsZero(t *testing.T) {
	db := setupTreasuryTest(t)
	bal, err := BalanceOf(db, "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)
}
