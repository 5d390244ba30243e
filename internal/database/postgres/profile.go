package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

const profileColumns = `p.id, p.username, p.role, p.skills, p.interests, p.bio, p.avatar_url, p.created_at, p.updated_at`

// GetProfileByID fetches a single profile by its ID
func (c *Client) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	start := time.Now()
	operation := "getProfileByID"

	query := fmt.Sprintf(`SELECT %s FROM profiles p WHERE p.id = $1`, profileColumns)

	row := c.pool.QueryRow(ctx, query, id)
	profile, err := scanProfile(row)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("profile " + id)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return profile, nil
}

// GetAllProfiles fetches every profile in the directory, ordered by ID for
// deterministic snapshots.
func (c *Client) GetAllProfiles(ctx context.Context) ([]*models.Profile, error) {
	start := time.Now()
	operation := "getAllProfiles"

	query := fmt.Sprintf(`SELECT %s FROM profiles p ORDER BY p.id ASC`, profileColumns)

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles, err := scanProfiles(rows)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(profiles)))

	return profiles, nil
}

// ListProfiles fetches profiles matching the filter. Skill and interest
// tokens match case-insensitively as substrings against any element of the
// respective array; multiple tokens are OR-ed, matching the directory search
// contract.
func (c *Client) ListProfiles(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	start := time.Now()
	operation := "listProfiles"

	conditions := []string{}
	args := []interface{}{}

	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conditions = append(conditions, fmt.Sprintf("p.role = $%d", len(args)))
	}

	tokenConds := []string{}
	for _, token := range filter.SkillTokens {
		args = append(args, "%"+token+"%")
		tokenConds = append(tokenConds,
			fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(p.skills) s WHERE s ILIKE $%d)", len(args)))
	}
	for _, token := range filter.InterestTokens {
		args = append(args, "%"+token+"%")
		tokenConds = append(tokenConds,
			fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(p.interests) i WHERE i ILIKE $%d)", len(args)))
	}
	if len(tokenConds) > 0 {
		conditions = append(conditions, "("+strings.Join(tokenConds, " OR ")+")")
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles p`, profileColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.id ASC"

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles, err := scanProfiles(rows)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(profiles)))

	return profiles, nil
}

// scanProfile scans a single row into a Profile
func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Username, &p.Role, &p.Skills, &p.Interests,
		&p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProfiles scans all rows into a slice of Profiles
func scanProfiles(rows pgx.Rows) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}
