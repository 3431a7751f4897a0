package treasury

import (
	"buyback-backend/internal/domain"

	"gorm.io/gorm"
)

// Transferer moves currency to an address. Settlement payouts and escrow
// withdrawals go through it; a failed transfer fails the whole calling
// operation. Abstracted for test doubles.
type Transferer interface {
	Transfer(tx *gorm.DB, to string, amount int64) error
}

// CashTransferer credits GORM-backed cash accounts.
type CashTransferer struct{}

func (CashTransferer) Transfer(tx *gorm.DB, to string, amount int64) error {
	var account domain.CashAccount
	err := tx.Where("address = ?", to).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.CashAccount{Address: to, Balance: amount}).Error
	}
	if err != nil {
		return err
	}
	account.Balance += amount
	return tx.Save(&account).Error
}

// BalanceOf returns the address's cash balance (0 if no row).
func BalanceOf(tx *gorm.DB, address string) (int64, error) {
	var account domain.CashAccount
	err := tx.Where("address = ?", address).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}
