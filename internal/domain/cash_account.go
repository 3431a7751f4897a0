package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashAccount holds an address's currency balance in the smallest
// denomination. Settlement payouts and escrow withdrawals credit these rows.
type CashAccount struct {
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	Address   string    `gorm:"column:address;type:varchar(64);not null;uniqueIndex" json:"address"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (CashAccount) TableName() string {
	return "CashAccounts"
}

func (a *CashAccount) BeforeCreate(tx *gorm.DB) error {
	if a.AccountID == uuid.Nil {
		a.AccountID = uuid.New()
	}
	return nil
}
