package token

import (
	"testing"

	"buyback-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerTest(t *testing.T) (*Ledger, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.TokenBalance{}, &domain.TokenAllowance{}))
	return &Ledger{DB: db}, db
}

func TestAuthorizedAmount_NoAllowance(t *testing.T) {
	l, db := setupLedgerTest(t)
	amt, err := l.AuthorizedAmount(db, "alice", "offer-1", "CCT")
	require.NoError(t, err)
	assert.Equal(t, int64(0), amt)
}

func TestApproveOverwrites(t *testing.T) {
	l, db := setupLedgerTest(t)
	require.NoError(t, l.Approve(db, "alice", "offer-1", "CCT", 10))
	require.NoError(t, l.Approve(db, "alice", "offer-1", "CCT", 4))

	amt, err := l.AuthorizedAmount(db, "alice", "offer-1", "CCT")
	require.NoError(t, err)
	assert.Equal(t, int64(4), amt)
}

func TestDebitFrom_MovesUnitsAndConsumesAllowance(t *testing.T) {
	l, db := setupLedgerTest(t)
	require.NoError(t, l.Mint(db, "alice", "CCT", 20))
	require.NoError(t, l.Approve(db, "alice", "offer-1", "CCT", 10))

	require.NoError(t, l.DebitFrom(db, "alice", "treasury", "offer-1", "CCT", 7))

	from, err := l.BalanceOf(db, "alice", "CCT")
	require.NoError(t, err)
	assert.Equal(t, int64(13), from)

	to, err := l.BalanceOf(db, "treasury", "CCT")
	require.NoError(t, err)
	assert.Equal(t, int64(7), to)

	amt, err := l.AuthorizedAmount(db, "alice", "offer-1", "CCT")
	require.NoError(t, err)
	assert.Equal(t, int64(3), amt)
}

func TestDebitFrom_AllowanceTooLow(t *testing.T) {
	l, db := setupLedgerTest(t)
	require.NoError(t, l.Mint(db, "alice", "CCT", 20))
	require.NoError(t, l.Approve(db, "alice", "offer-1", "CCT", 5))

	err := l.DebitFrom(db, "alice", "treasury", "offer-1", "CCT", 7)
	assert.ErrorIs(t, err, ErrInsufficientAllowance)
}

func TestDebitFrom_BalanceTooLow(t *testing.T) {
	l, db := setupLedgerTest(t)
	require.NoError(t, l.Mint(db, "alice", "CCT", 3))
	require.NoError(t, l.Approve(db, "alice", "offer-1", "CCT", 10))

	err := l.DebitFrom(db, "alice", "treasury", "offer-1", "CCT", 7)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}
