package offer

import (
	"context"
	"encoding/json"

	"buyback-backend/internal/domain"
	"buyback-backend/internal/guard"
	"buyback-backend/internal/token"
	"buyback-backend/internal/treasury"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the commitment ledger and the settlement engine for buy-back
// offers. Every mutating entry point runs inside a non-blocking guarded
// section keyed by offer, and inside one DB transaction, so a call either
// commits all of its changes or none of them.
type Service struct {
	DB     *gorm.DB
	Tokens token.Capability
	Cash   treasury.Transferer
	Guard  *guard.Guard

	// OwnerAddress receives drained escrow funds on WithdrawAllFunds.
	OwnerAddress string
}

// CreateOffer records a new offer. Offers are born paused; the operator
// funds the escrow and unpauses before pledges are accepted.
func (s *Service) CreateOffer(ctx context.Context, recipient, symbol string, minCommitment, pricePerUnit int64) (*domain.Offer, error) {
	if minCommitment <= 0 || pricePerUnit <= 0 {
		return nil, ErrInvalidAmount
	}
	o := domain.Offer{
		Recipient:     recipient,
		TokenSymbol:   symbol,
		MinCommitment: minCommitment,
		PricePerUnit:  pricePerUnit,
		Paused:        true,
	}
	if err := s.DB.WithContext(ctx).Create(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// Pledge records (or overwrites) a pledger's commitment. The pledged units
// are not moved; only the pledger's standing authorization is checked.
func (s *Service) Pledge(ctx context.Context, offerID uuid.UUID, pledger string, amount int64) (map[string]interface{}, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	release, err := s.Guard.Acquire(ctx, offerID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var result map[string]interface{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Offer
		if err := tx.Where("offer_id = ?", offerID).First(&o).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}
		if o.Paused {
			return ErrOfferPaused
		}

		authorized, err := s.Tokens.AuthorizedAmount(tx, pledger, o.SpenderAddress(), o.TokenSymbol)
		if err != nil {
			return err
		}
		if authorized < amount {
			return ErrNotAuthorized
		}

		// Funding guard: the grown aggregate, priced out, must stay within
		// what the escrow can honor.
		if (o.AggregateTotal+amount)*o.PricePerUnit > o.EscrowBalance {
			return ErrOvercommitted
		}

		// A repeat pledge overwrites the stored amount but still grows the
		// aggregate by the full new amount.
		var c domain.Commitment
		err = tx.Where("offer_id = ? AND pledger = ?", offerID, pledger).First(&c).Error
		if err == gorm.ErrRecordNotFound {
			if err := tx.Create(&domain.Commitment{
				OfferID: offerID,
				Pledger: pledger,
				Amount:  amount,
			}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			c.Amount = amount
			if err := tx.Save(&c).Error; err != nil {
				return err
			}
		}

		o.AggregateTotal += amount
		if err := tx.Save(&o).Error; err != nil {
			return err
		}

		if err := emitEvent(tx, offerID, domain.EventCommitment, map[string]interface{}{
			"pledger": pledger,
			"amount":  amount,
		}); err != nil {
			return err
		}

		result = map[string]interface{}{
			"pledger":         pledger,
			"amount":          amount,
			"aggregate_total": o.AggregateTotal,
		}
		return nil
	})

	return result, err
}

// ExecuteSettlement settles the supplied recipients in order, debiting each
// honored pledger's units to the offer recipient and paying them from the
// escrow. A pledger whose authorization no longer covers their pledge is
// skipped (no debit, no payout, no event) but their ledger entry is still
// consumed; anything else going wrong rolls back the whole batch.
func (s *Service) ExecuteSettlement(ctx context.Context, offerID uuid.UUID, recipients []string) (map[string]interface{}, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	release, err := s.Guard.Acquire(ctx, offerID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var result map[string]interface{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Offer
		if err := tx.Where("offer_id = ?", offerID).First(&o).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}
		if o.Paused {
			return ErrOfferPaused
		}
		// The threshold is checked once; after that the flag keeps settlement
		// open even as prior batches shrink the aggregate below it.
		if !o.MinimumMet && o.AggregateTotal <= o.MinCommitment {
			return ErrThresholdNotMet
		}
		if o.AggregateTotal*o.PricePerUnit > o.EscrowBalance {
			return ErrEscrowTooLow
		}
		o.MinimumMet = true

		var settled, skipped, missing int
		var unitsOut, cashOut int64
		for _, pledger := range recipients {
			var c domain.Commitment
			err := tx.Where("offer_id = ? AND pledger = ?", offerID, pledger).First(&c).Error
			if err == gorm.ErrRecordNotFound {
				// Never pledged, or already settled.
				missing++
				continue
			}
			if err != nil {
				return err
			}

			payment := c.Amount * o.PricePerUnit
			authorized, err := s.Tokens.AuthorizedAmount(tx, pledger, o.SpenderAddress(), o.TokenSymbol)
			if err != nil {
				return err
			}
			honored := authorized >= c.Amount

			// Effects before interactions: the ledger entry is consumed
			// either way, so a reentrant call cannot replay it.
			o.AggregateTotal -= c.Amount
			if honored {
				o.EscrowBalance -= payment
			}
			if err := tx.Save(&o).Error; err != nil {
				return err
			}
			if err := tx.Delete(&c).Error; err != nil {
				return err
			}

			if !honored {
				// Revoked or reduced authorization: tolerated as a skip so
				// one pledger cannot strand the rest of the batch.
				skipped++
				continue
			}

			if err := s.Tokens.DebitFrom(tx, pledger, o.Recipient, o.SpenderAddress(), o.TokenSymbol, c.Amount); err != nil {
				return err
			}
			if err := s.Cash.Transfer(tx, pledger, payment); err != nil {
				return err
			}
			if err := emitEvent(tx, offerID, domain.EventSettled, map[string]interface{}{
				"pledger": pledger,
				"units":   c.Amount,
				"payment": payment,
			}); err != nil {
				return err
			}
			settled++
			unitsOut += c.Amount
			cashOut += payment
		}

		if err := tx.Save(&o).Error; err != nil {
			return err
		}

		log.Info().
			Str("offer_id", offerID.String()).
			Int("settled", settled).
			Int("skipped", skipped).
			Int("missing", missing).
			Int64("units", unitsOut).
			Int64("paid", cashOut).
			Msg("Settlement batch executed")

		result = map[string]interface{}{
			"settled":         settled,
			"skipped":         skipped,
			"units_debited":   unitsOut,
			"amount_paid":     cashOut,
			"aggregate_total": o.AggregateTotal,
			"escrow_balance":  o.EscrowBalance,
			"minimum_met":     o.MinimumMet,
		}
		return nil
	})

	return result, err
}

// Pause stops pledging and settlement for the offer.
func (s *Service) Pause(ctx context.Context, offerID uuid.UUID) error {
	return s.setPaused(ctx, offerID, true)
}

// Unpause reopens the offer.
func (s *Service) Unpause(ctx context.Context, offerID uuid.UUID) error {
	return s.setPaused(ctx, offerID, false)
}

func (s *Service) setPaused(ctx context.Context, offerID uuid.UUID, paused bool) error {
	release, err := s.Guard.Acquire(ctx, offerID.String())
	if err != nil {
		return err
	}
	defer release()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Offer
		if err := tx.Where("offer_id = ?", offerID).First(&o).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}
		if paused && o.Paused {
			return ErrAlreadyPaused
		}
		if !paused && !o.Paused {
			return ErrNotPaused
		}
		o.Paused = paused
		return tx.Save(&o).Error
	})
}

// FundEscrow credits the offer's escrow balance (a plain value deposit).
func (s *Service) FundEscrow(ctx context.Context, offerID uuid.UUID, amount int64) (map[string]interface{}, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	release, err := s.Guard.Acquire(ctx, offerID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var result map[string]interface{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Offer
		if err := tx.Where("offer_id = ?", offerID).First(&o).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}
		o.EscrowBalance += amount
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		result = map[string]interface{}{"escrow_balance": o.EscrowBalance}
		return nil
	})
	return result, err
}

// WithdrawAllFunds drains the entire escrow balance to the owner. Outstanding
// commitments are left in place; settling them afterwards fails the escrow
// sufficiency guard.
func (s *Service) WithdrawAllFunds(ctx context.Context, offerID uuid.UUID) (map[string]interface{}, error) {
	release, err := s.Guard.Acquire(ctx, offerID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var result map[string]interface{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Offer
		if err := tx.Where("offer_id = ?", offerID).First(&o).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}
		amount := o.EscrowBalance
		o.EscrowBalance = 0
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		if amount > 0 {
			if err := s.Cash.Transfer(tx, s.OwnerAddress, amount); err != nil {
				return err
			}
		}
		result = map[string]interface{}{"withdrawn": amount}
		return nil
	})
	return result, err
}

// GetOffer returns the offer row.
func (s *Service) GetOffer(ctx context.Context, offerID uuid.UUID) (*domain.Offer, error) {
	var o domain.Offer
	if err := s.DB.WithContext(ctx).Where("offer_id = ?", offerID).First(&o).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListCommitments returns the outstanding commitments, keyed by pledger.
func (s *Service) ListCommitments(ctx context.Context, offerID uuid.UUID) ([]domain.Commitment, error) {
	var commitments []domain.Commitment
	if err := s.DB.WithContext(ctx).Where("offer_id = ?", offerID).Order("pledger ASC").Find(&commitments).Error; err != nil {
		return nil, err
	}
	return commitments, nil
}

// ListEvents returns the offer's event log, oldest first.
func (s *Service) ListEvents(ctx context.Context, offerID uuid.UUID) ([]domain.OfferEvent, error) {
	var events []domain.OfferEvent
	if err := s.DB.WithContext(ctx).Where("offer_id = ?", offerID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func emitEvent(tx *gorm.DB, offerID uuid.UUID, eventType string, data map[string]interface{}) error {
	payload, _ := json.Marshal(data)
	return tx.Create(&domain.OfferEvent{
		OfferID:   offerID,
		EventType: eventType,
		EventData: datatypes.JSON(payload),
	}).Error
}
