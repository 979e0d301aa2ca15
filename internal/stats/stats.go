package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fintrack-app/fintrack/internal/metrics"
	"github.com/fintrack-app/fintrack/internal/repo"
)

// Run starts a background job that refreshes the users/incomes row gauges
// every minute. Returns the cron runner so the caller can Stop it on shutdown.
func Run(users *repo.UserRepo, incomes *repo.IncomeRepo) *cron.Cron {
	c := cron.New()

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if n, err := users.Count(ctx); err != nil {
			slog.Error("stats: count users", "error", err)
		} else {
			metrics.UsersTotal.Set(float64(n))
		}

		if n, err := incomes.Count(ctx); err != nil {
			slog.Error("stats: count incomes", "error", err)
		} else {
			metrics.IncomesTotal.Set(float64(n))
		}
	}

	if _, err := c.AddFunc("* * * * *", refresh); err != nil {
		slog.Error("stats: schedule refresh", "error", err)
		return c
	}

	// Populate the gauges immediately instead of waiting for the first tick.
	refresh()
	c.Start()
	return c
}
