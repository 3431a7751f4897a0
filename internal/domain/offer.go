package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Offer is a single fixed-price buy-back offer. Created paused; the operator
// unpauses it once the escrow has been funded.
type Offer struct {
	OfferID       uuid.UUID `gorm:"column:offer_id;type:uuid;primaryKey" json:"offer_id"`
	Recipient     string    `gorm:"column:recipient;type:varchar(64);not null" json:"recipient"`
	TokenSymbol   string    `gorm:"column:token_symbol;type:varchar(16);not null" json:"token_symbol"`
	MinCommitment int64     `gorm:"column:min_commitment;not null" json:"min_commitment"`
	PricePerUnit  int64     `gorm:"column:price_per_unit;not null" json:"price_per_unit"`

	// AggregateTotal is the running sum of all recorded pledges, decremented
	// as settlement consumes them. Units, not currency.
	AggregateTotal int64 `gorm:"column:aggregate_total;not null;default:0" json:"aggregate_total"`

	// EscrowBalance is the offer's own currency holdings in the smallest
	// denomination. Funding and settlement payouts are its only mutators,
	// besides the operator draining it.
	EscrowBalance int64 `gorm:"column:escrow_balance;not null;default:0" json:"escrow_balance"`

	Paused     bool `gorm:"column:paused;not null;default:true" json:"paused"`
	MinimumMet bool `gorm:"column:minimum_met;not null;default:false" json:"minimum_met"`

	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Offer) TableName() string {
	return "Offers"
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.OfferID == uuid.Nil {
		o.OfferID = uuid.New()
	}
	return nil
}

// SpenderAddress is the identity pledgers grant token allowances to.
// The offer itself acts as the spender, the way a contract address would.
func (o *Offer) SpenderAddress() string {
	return o.OfferID.String()
}
