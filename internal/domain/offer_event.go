package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventCommitment = "COMMITMENT"
	EventSettled    = "SETTLED"
)

// OfferEvent is the observable record of a pledge or a settled payout.
type OfferEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	OfferID   uuid.UUID      `gorm:"column:offer_id;type:uuid;not null" json:"offer_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (OfferEvent) TableName() string {
	return "OfferEvents"
}

func (e *OfferEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
