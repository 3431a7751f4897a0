package health

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

type Handlers struct {
	DB  DBPinger
	Rdb *redis.Client
}

// JSON GET /health/json — reports dependency status.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	deps := map[string]DepStatus{
		"database": pingDep(func() error {
			if h.DB == nil {
				return errNotConfigured
			}
			return h.DB.Ping()
		}),
		"redis": pingDep(func() error {
			if h.Rdb == nil {
				return errNotConfigured
			}
			return h.Rdb.Ping(c.Context()).Err()
		}),
	}

	status := "ok"
	for _, d := range deps {
		if d.Status != "connected" {
			status = "degraded"
		}
	}
	return c.JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
	})
}

var errNotConfigured = fiber.NewError(fiber.StatusServiceUnavailable, "not configured")

func pingDep(ping func() error) DepStatus {
	start := time.Now()
	if err := ping(); err != nil {
		return DepStatus{Status: "disconnected", PingMs: nil}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: "connected", PingMs: ms}
}
