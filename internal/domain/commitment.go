package domain

import (
	"time"

	"github.com/google/uuid"
)

// Commitment is one pledger's outstanding pledge against an offer. A repeat
// pledge from the same address overwrites Amount rather than adding to it;
// settlement deletes the row.
type Commitment struct {
	OfferID   uuid.UUID `gorm:"column:offer_id;type:uuid;primaryKey" json:"offer_id"`
	Pledger   string    `gorm:"column:pledger;type:varchar(64);primaryKey" json:"pledger"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Commitment) TableName() string {
	return "Commitments"
}
