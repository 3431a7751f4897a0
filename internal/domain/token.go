package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBalance holds an address's balance of one fungible unit type.
type TokenBalance struct {
	BalanceID uuid.UUID `gorm:"column:balance_id;type:uuid;primaryKey" json:"balance_id"`
	Address   string    `gorm:"column:address;type:varchar(64);not null;uniqueIndex:idx_token_balance" json:"address"`
	Symbol    string    `gorm:"column:symbol;type:varchar(16);not null;uniqueIndex:idx_token_balance" json:"symbol"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (TokenBalance) TableName() string {
	return "TokenBalances"
}

func (b *TokenBalance) BeforeCreate(tx *gorm.DB) error {
	if b.BalanceID == uuid.Nil {
		b.BalanceID = uuid.New()
	}
	return nil
}

// TokenAllowance is an owner's standing permission for a spender to debit up
// to Amount of their units. Consumed by debits, ERC-20 style.
type TokenAllowance struct {
	AllowanceID uuid.UUID `gorm:"column:allowance_id;type:uuid;primaryKey" json:"allowance_id"`
	Owner       string    `gorm:"column:owner;type:varchar(64);not null;uniqueIndex:idx_token_allowance" json:"owner"`
	Spender     string    `gorm:"column:spender;type:varchar(64);not null;uniqueIndex:idx_token_allowance" json:"spender"`
	Symbol      string    `gorm:"column:symbol;type:varchar(16);not null;uniqueIndex:idx_token_allowance" json:"symbol"`
	Amount      int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (TokenAllowance) TableName() string {
	return "TokenAllowances"
}

func (a *TokenAllowance) BeforeCreate(tx *gorm.DB) error {
	if a.AllowanceID == uuid.Nil {
		a.AllowanceID = uuid.New()
	}
	return nil
}
