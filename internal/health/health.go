package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

type Checker struct {
	db      *pgxpool.Pool
	started time.Time
}

func NewChecker(db *pgxpool.Pool) *Checker {
	return &Checker{db: db, started: time.Now()}
}

func (c *Checker) Check(ctx context.Context) Status {
	s := Status{
		Status:   "ok",
		Database: "up",
		Uptime:   time.Since(c.started).Round(time.Second).String(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.db.Ping(pingCtx); err != nil {
		s.Status = "degraded"
		s.Database = "down"
	}

	return s
}
