package token

import (
	"errors"

	"buyback-backend/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance   = errors.New("Insufficient token balance")
	ErrInsufficientAllowance = errors.New("Insufficient token allowance")
)

// Capability is the boundary to the pledged-unit ledger: what the offer needs
// to know (how much it may debit) and do (debit units it was authorized for).
// Abstracted for test doubles; production uses Ledger on the shared DB so a
// settlement batch and its debits commit or roll back together.
type Capability interface {
	AuthorizedAmount(tx *gorm.DB, owner, spender, symbol string) (int64, error)
	DebitFrom(tx *gorm.DB, owner, to, spender, symbol string, amount int64) error
}

// Ledger is the GORM-backed token ledger.
type Ledger struct {
	DB *gorm.DB
}

// AuthorizedAmount returns owner's standing allowance to spender (0 if none).
func (l *Ledger) AuthorizedAmount(tx *gorm.DB, owner, spender, symbol string) (int64, error) {
	var allowance domain.TokenAllowance
	err := tx.Where("owner = ? AND spender = ? AND symbol = ?", owner, spender, symbol).First(&allowance).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return allowance.Amount, nil
}

// DebitFrom moves amount units from owner to the target address, consuming
// spender's allowance. Fails the whole calling operation if the owner's
// balance or the allowance cannot cover it.
func (l *Ledger) DebitFrom(tx *gorm.DB, owner, to, spender, symbol string, amount int64) error {
	var allowance domain.TokenAllowance
	if err := tx.Where("owner = ? AND spender = ? AND symbol = ?", owner, spender, symbol).First(&allowance).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInsufficientAllowance
		}
		return err
	}
	if allowance.Amount < amount {
		return ErrInsufficientAllowance
	}

	var from domain.TokenBalance
	if err := tx.Where("address = ? AND symbol = ?", owner, symbol).First(&from).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInsufficientBalance
		}
		return err
	}
	if from.Balance < amount {
		return ErrInsufficientBalance
	}

	allowance.Amount -= amount
	if err := tx.Save(&allowance).Error; err != nil {
		return err
	}
	from.Balance -= amount
	if err := tx.Save(&from).Error; err != nil {
		return err
	}
	return credit(tx, to, symbol, amount)
}

// Approve sets (replaces) owner's allowance for spender.
func (l *Ledger) Approve(tx *gorm.DB, owner, spender, symbol string, amount int64) error {
	var allowance domain.TokenAllowance
	err := tx.Where("owner = ? AND spender = ? AND symbol = ?", owner, spender, symbol).First(&allowance).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.TokenAllowance{
			Owner:   owner,
			Spender: spender,
			Symbol:  symbol,
			Amount:  amount,
		}).Error
	}
	if err != nil {
		return err
	}
	allowance.Amount = amount
	return tx.Save(&allowance).Error
}

// Mint credits freshly issued units to an address (admin/fixture seam).
func (l *Ledger) Mint(tx *gorm.DB, to, symbol string, amount int64) error {
	return credit(tx, to, symbol, amount)
}

// BalanceOf returns the address's unit balance (0 if no row).
func (l *Ledger) BalanceOf(tx *gorm.DB, address, symbol string) (int64, error) {
	var bal domain.TokenBalance
	err := tx.Where("address = ? AND symbol = ?", address, symbol).First(&bal).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bal.Balance, nil
}

func credit(tx *gorm.DB, to, symbol string, amount int64) error {
	var bal domain.TokenBalance
	err := tx.Where("address = ? AND symbol = ?", to, symbol).First(&bal).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.TokenBalance{
			Address: to,
			Symbol:  symbol,
			Balance: amount,
		}).Error
	}
	if err != nil {
		return err
	}
	bal.Balance += amount
	return tx.Save(&bal).Error
}
