package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"go.uber.org/zap"
)

// MatchmakingService scores and ranks complementary-role candidates for a
// subject profile.
type MatchmakingService struct {
	profileRepo repository.ProfileRepositoryInterface
	config      *config.Config
}

// NewMatchmakingService creates a new MatchmakingService
func NewMatchmakingService(profileRepo repository.ProfileRepositoryInterface, cfg *config.Config) *MatchmakingService {
	return &MatchmakingService{
		profileRepo: profileRepo,
		config:      cfg,
	}
}

// Rank returns the best matches for the subject profile, strongest first.
//
// Candidates are every profile with the complementary role, the subject
// excluded. Each candidate is scored by counting overlapping skills plus
// overlapping interests; zero-score candidates are dropped. Ties are broken
// by candidate ID ascending so identical directories always rank identically.
func (s *MatchmakingService) Rank(ctx context.Context, subjectID string) ([]*models.MatchResult, error) {
	start := time.Now()

	subject, err := s.profileRepo.GetByID(ctx, subjectID)
	if err != nil {
		metrics.MatchQueries.WithLabelValues("unknown", "not_found").Inc()
		return nil, fmt.Errorf("failed to resolve match subject: %w", err)
	}

	candidates, err := s.profileRepo.GetAll(ctx)
	if err != nil {
		metrics.MatchQueries.WithLabelValues(string(subject.Role), "error").Inc()
		logger.Error("Failed to load directory for matching",
			zap.String("subject_id", subjectID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	targetRole := subject.Role.Complement()

	results := make([]*models.MatchResult, 0)
	for _, candidate := range candidates {
		if candidate.ID == subject.ID || candidate.Role != targetRole {
			continue
		}

		matchingSkills := intersectTokens(subject.Skills, candidate.Skills)
		matchingInterests := intersectTokens(subject.Interests, candidate.Interests)

		score := len(matchingSkills) + len(matchingInterests)
		if score == 0 {
			continue
		}

		results = append(results, &models.MatchResult{
			ID:                candidate.ID,
			Username:          candidate.Username,
			Role:              candidate.Role,
			Skills:            candidate.Skills,
			Interests:         candidate.Interests,
			Bio:               candidate.Bio,
			AvatarURL:         candidate.AvatarURL,
			Score:             score,
			MatchingSkills:    matchingSkills,
			MatchingInterests: matchingInterests,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	maxResults := s.config.Matchmaking.MaxResults
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	metrics.MatchQueries.WithLabelValues(string(subject.Role), "success").Inc()
	metrics.MatchResultsReturned.WithLabelValues(string(subject.Role)).Observe(float64(len(results)))

	logger.Info("Ranked matches",
		zap.String("subject_id", subjectID),
		zap.String("subject_role", string(subject.Role)),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)))

	return results, nil
}

// intersectTokens returns the subject tokens that also appear in the
// candidate list. Comparison is case-insensitive on trimmed tokens; the
// returned tokens keep the subject's original spelling and order, and each
// distinct token counts once.
func intersectTokens(subjectTokens, candidateTokens []string) []string {
	if len(subjectTokens) == 0 || len(candidateTokens) == 0 {
		return []string{}
	}

	candidateSet := make(map[string]struct{}, len(candidateTokens))
	for _, t := range candidateTokens {
		candidateSet[normalizeToken(t)] = struct{}{}
	}

	matched := []string{}
	seen := make(map[string]struct{})
	for _, t := range subjectTokens {
		key := normalizeToken(t)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if _, ok := candidateSet[key]; ok {
			matched = append(matched, t)
			seen[key] = struct{}{}
		}
	}

	return matched
}

func normalizeToken(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
