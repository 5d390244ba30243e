package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

const uniqueViolationCode = "23505"

// CreateMentorshipRequest inserts a new pending request for the ordered
// (requestor, acceptor) pair. The unique constraint on the pair is the hard
// duplicate guarantee; a constraint violation surfaces as ErrDuplicate.
func (c *Client) CreateMentorshipRequest(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "createMentorshipRequest"

	query := `
		INSERT INTO mentorship_requests (requestor_id, acceptor_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, requestor_id, acceptor_id, status, created_at, updated_at
	`

	row := c.pool.QueryRow(ctx, query, requestorID, acceptorID, models.StatusPending)
	request, err := scanMentorshipRequest(row)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			recordMetrics(operation, "duplicate", duration)
			return nil, apperrors.DuplicateError("request for pair already exists")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create mentorship request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("request_id", request.ID))

	return request, nil
}

// GetMentorshipRequestByID fetches a single request by its ID
func (c *Client) GetMentorshipRequestByID(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "getMentorshipRequestByID"

	query := `
		SELECT id, requestor_id, acceptor_id, status, created_at, updated_at
		FROM mentorship_requests
		WHERE id = $1
	`

	row := c.pool.QueryRow(ctx, query, id)
	request, err := scanMentorshipRequest(row)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("request " + id)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch mentorship request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return request, nil
}

// GetMentorshipRequestByPair fetches the unique request for an ordered
// (requestor, acceptor) pair
func (c *Client) GetMentorshipRequestByPair(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "getMentorshipRequestByPair"

	query := `
		SELECT id, requestor_id, acceptor_id, status, created_at, updated_at
		FROM mentorship_requests
		WHERE requestor_id = $1 AND acceptor_id = $2
	`

	row := c.pool.QueryRow(ctx, query, requestorID, acceptorID)
	request, err := scanMentorshipRequest(row)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("request for pair")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch mentorship request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return request, nil
}

// ListIncomingRequests returns all requests targeting the given acceptor,
// enriched with the requestor's display attributes, newest first.
func (c *Client) ListIncomingRequests(ctx context.Context, acceptorID string) ([]*models.IncomingRequest, error) {
	start := time.Now()
	operation := "listIncomingRequests"

	query := `
		SELECT r.id, r.requestor_id, p.username, p.role, p.skills, p.avatar_url,
		       r.status, r.created_at, r.updated_at
		FROM mentorship_requests r
		JOIN profiles p ON p.id = r.requestor_id
		WHERE r.acceptor_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := c.pool.Query(ctx, query, acceptorID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query incoming requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.IncomingRequest, 0)
	for rows.Next() {
		var r models.IncomingRequest
		err := rows.Scan(
			&r.ID, &r.RequestorID, &r.RequestorUsername, &r.RequestorRole,
			&r.RequestorSkills, &r.RequestorAvatarURL,
			&r.Status, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan incoming request row: %w", err)
		}
		requests = append(requests, &r)
	}

	duration := metrics.MeasureDuration(start)

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating incoming request rows: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(requests)))

	return requests, nil
}

// TransitionMentorshipRequest moves a request out of pending with a
// conditional update. Exactly one of two concurrent transitions can win; the
// loser observes zero affected rows and gets ErrConflict.
func (c *Client) TransitionMentorshipRequest(ctx context.Context, id string, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	start := time.Now()
	operation := "transitionMentorshipRequest"

	query := `
		UPDATE mentorship_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id, requestor_id, acceptor_id, status, created_at, updated_at
	`

	row := c.pool.QueryRow(ctx, query, newStatus, id, models.StatusPending)
	request, err := scanMentorshipRequest(row)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		// Either the request vanished or it already left pending. Look at the
		// current row to report the right failure.
		current, getErr := c.GetMentorshipRequestByID(ctx, id)
		if getErr != nil {
			recordMetrics(operation, "not_found", duration)
			return nil, getErr
		}
		recordMetrics(operation, "conflict", duration)
		return nil, apperrors.ConflictError(fmt.Sprintf("request already %s", current.Status))
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to transition mentorship request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("request_id", id),
		zap.String("new_status", string(newStatus)))

	return request, nil
}

// scanMentorshipRequest scans a single row into a MentorshipRequest
func scanMentorshipRequest(row pgx.Row) (*models.MentorshipRequest, error) {
	var r models.MentorshipRequest
	err := row.Scan(
		&r.ID, &r.RequestorID, &r.AcceptorID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
