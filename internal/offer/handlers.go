package offer

import (
	"errors"

	"buyback-backend/internal/guard"
	"buyback-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// statusFor maps service sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrOfferNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNoRecipients),
		errors.Is(err, ErrOfferPaused),
		errors.Is(err, ErrAlreadyPaused),
		errors.Is(err, ErrNotPaused),
		errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrOvercommitted),
		errors.Is(err, ErrThresholdNotMet),
		errors.Is(err, ErrEscrowTooLow):
		return fiber.StatusBadRequest
	case errors.Is(err, guard.ErrBusy):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		return response.Error(c, "Internal Server Error", code, nil)
	}
	return response.Error(c, err.Error(), code, nil)
}

func parseOfferID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("offer_id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CreateOffer POST /api/v1/offers/create-offer (owner)
func (h *Handlers) CreateOffer(c *fiber.Ctx) error {
	var body struct {
		Recipient     string `json:"recipient"`
		TokenSymbol   string `json:"token_symbol"`
		MinCommitment int64  `json:"min_commitment"`
		PricePerUnit  int64  `json:"price_per_unit"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Recipient == "" || body.TokenSymbol == "" || body.MinCommitment == 0 || body.PricePerUnit == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	o, err := h.Service.CreateOffer(c.Context(), body.Recipient, body.TokenSymbol, body.MinCommitment, body.PricePerUnit)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Offer created", o, nil)
}

// Pledge POST /api/v1/offers/:offer_id/pledge
func (h *Handlers) Pledge(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	var body struct {
		Pledger string `json:"pledger"`
		Amount  int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Pledger == "" || body.Amount == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	result, err := h.Service.Pledge(c.Context(), offerID, body.Pledger, body.Amount)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Commitment recorded", result, nil)
}

// ExecuteSettlement POST /api/v1/offers/:offer_id/execute-settlement
func (h *Handlers) ExecuteSettlement(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	var body struct {
		Recipients []string `json:"recipients"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Recipients list is required", 400, nil)
	}

	result, err := h.Service.ExecuteSettlement(c.Context(), offerID, body.Recipients)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Settlement executed", result, nil)
}

// Pause POST /api/v1/offers/:offer_id/pause (owner)
func (h *Handlers) Pause(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	if err := h.Service.Pause(c.Context(), offerID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Offer paused", fiber.Map{"paused": true}, nil)
}

// Unpause POST /api/v1/offers/:offer_id/unpause (owner)
func (h *Handlers) Unpause(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	if err := h.Service.Unpause(c.Context(), offerID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Offer unpaused", fiber.Map{"paused": false}, nil)
}

// FundEscrow POST /api/v1/offers/:offer_id/fund-escrow (owner)
func (h *Handlers) FundEscrow(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Amount == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	result, err := h.Service.FundEscrow(c.Context(), offerID, body.Amount)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Escrow funded", result, nil)
}

// WithdrawAllFunds POST /api/v1/offers/:offer_id/withdraw-all-funds (owner)
func (h *Handlers) WithdrawAllFunds(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	result, err := h.Service.WithdrawAllFunds(c.Context(), offerID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Escrow withdrawn", result, nil)
}

// ViewOffer GET /api/v1/offers/view-offer/:offer_id
func (h *Handlers) ViewOffer(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	o, err := h.Service.GetOffer(c.Context(), offerID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Offer retrieved", o, nil)
}

// ViewCommitments GET /api/v1/offers/:offer_id/view-commitments
func (h *Handlers) ViewCommitments(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	commitments, err := h.Service.ListCommitments(c.Context(), offerID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Commitments retrieved", commitments, nil)
}

// ViewEvents GET /api/v1/offers/:offer_id/view-events
func (h *Handlers) ViewEvents(c *fiber.Ctx) error {
	offerID, ok := parseOfferID(c)
	if !ok {
		return response.Error(c, "Invalid UUID format for offer_id", 400, nil)
	}
	events, err := h.Service.ListEvents(c.Context(), offerID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Events retrieved", events, nil)
}
