package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NumberingScanJob looks for purchase orders sharing a (year, month, number)
// reference. Order creation computes the next number with a read followed by
// a separate insert, so concurrent creates can collide; this job surfaces
// any collision that slipped through.
type NumberingScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewNumberingScanJob initialises the numbering scan handler.
func NewNumberingScanJob(pool *pgxpool.Pool, logger *slog.Logger) *NumberingScanJob {
	return &NumberingScanJob{
		Pool:   pool,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the numbering scan logic.
func (j *NumberingScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("numbering scan: handler not configured")
	}
	var payload NumberingScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WindowMonths <= 0 {
		payload.WindowMonths = 3
	}

	start := j.now()
	logger := j.logger().With(slog.Int("window_months", payload.WindowMonths))
	logger.Info("starting numbering scan")

	collisions, err := j.scan(ctx, payload, start)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	for _, c := range collisions {
		logger.Warn("duplicate order number detected",
			slog.Int("year", c.Year),
			slog.Int("month", c.Month),
			slog.Int("number", c.Number),
			slog.Int("count", c.Count),
		)
	}

	logger.Info("completed numbering scan",
		slog.Int("collisions", len(collisions)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

type numberCollision struct {
	Year   int
	Month  int
	Number int
	Count  int
}

func (j *NumberingScanJob) scan(ctx context.Context, payload NumberingScanPayload, now time.Time) ([]numberCollision, error) {
	if j.Pool == nil {
		return nil, errors.New("numbering scan: pool not configured")
	}
	from := now.AddDate(0, -payload.WindowMonths+1, 0)
	// Soft-deleted rows stay in scope: their numbers are still reserved.
	rows, err := j.Pool.Query(ctx, `SELECT year, month, number, COUNT(*) FROM purchase_orders
		WHERE (year, month) >= ($1, $2)
		GROUP BY year, month, number HAVING COUNT(*) > 1
		ORDER BY year, month, number`, from.Year(), int(from.Month()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collisions []numberCollision
	for rows.Next() {
		var c numberCollision
		if err := rows.Scan(&c.Year, &c.Month, &c.Number, &c.Count); err != nil {
			return nil, err
		}
		collisions = append(collisions, c)
	}
	return collisions, rows.Err()
}

func (j *NumberingScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskNumberingScan))
	}
	return slog.Default().With(slog.String("job", TaskNumberingScan))
}

func (j *NumberingScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
