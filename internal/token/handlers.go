package token

import (
	"buyback-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handlers struct {
	Ledger *Ledger
}

// Approve POST /api/v1/token/approve — pledger grants an offer permission to
// debit up to amount of their units. Replaces any prior allowance.
func (h *Handlers) Approve(c *fiber.Ctx) error {
	var body struct {
		Owner   string `json:"owner"`
		Spender string `json:"spender"`
		Symbol  string `json:"symbol"`
		Amount  int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Owner == "" || body.Spender == "" || body.Symbol == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Amount < 0 {
		return response.Error(c, "Amount must not be negative", 400, nil)
	}

	err := h.Ledger.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return h.Ledger.Approve(tx, body.Owner, body.Spender, body.Symbol, body.Amount)
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Allowance set", fiber.Map{
		"owner":   body.Owner,
		"spender": body.Spender,
		"amount":  body.Amount,
	}, nil)
}

// Mint POST /api/v1/token/mint (owner) — credits units to an address.
func (h *Handlers) Mint(c *fiber.Ctx) error {
	var body struct {
		To     string `json:"to"`
		Symbol string `json:"symbol"`
		Amount int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.To == "" || body.Symbol == "" || body.Amount == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Amount < 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	err := h.Ledger.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return h.Ledger.Mint(tx, body.To, body.Symbol, body.Amount)
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Units minted", fiber.Map{
		"to":     body.To,
		"amount": body.Amount,
	}, nil)
}

// Balance GET /api/v1/token/balance/:address/:symbol
func (h *Handlers) Balance(c *fiber.Ctx) error {
	address := c.Params("address")
	symbol := c.Params("symbol")
	if address == "" || symbol == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	bal, err := h.Ledger.BalanceOf(h.Ledger.DB.WithContext(c.Context()), address, symbol)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Balance retrieved", fiber.Map{
		"address": address,
		"symbol":  symbol,
		"balance": bal,
	}, nil)
}
