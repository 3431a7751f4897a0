package offer

import "errors"

var (
	ErrOfferNotFound   = errors.New("Offer not found")
	ErrOfferPaused     = errors.New("Offer is paused")
	ErrAlreadyPaused   = errors.New("Offer is already paused")
	ErrNotPaused       = errors.New("Offer is not paused")
	ErrInvalidAmount   = errors.New("Amount must be a positive number")
	ErrNotAuthorized   = errors.New("Pledger has not authorized enough units")
	ErrOvercommitted   = errors.New("Pledge would overcommit the escrow balance")
	ErrThresholdNotMet = errors.New("Minimum commitment threshold not met")
	ErrEscrowTooLow    = errors.New("Escrow balance cannot cover outstanding commitments")
	ErrNoRecipients    = errors.New("Recipients list is required")
)
