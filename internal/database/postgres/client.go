package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// Client wraps a pgx connection pool with observability
type Client struct {
	pool *pgxpool.Pool
}

// NewClient creates a new PostgreSQL client around an existing pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Pool returns the underlying connection pool for advanced usage
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues("postgres_"+operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues("postgres_"+operation, status).Inc()
}
