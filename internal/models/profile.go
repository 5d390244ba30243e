package models

import (
	"strings"
	"time"
)

// Role is the fixed participant role. Requests always flow mentee -> mentor.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// IsValid reports whether the role is one of the two known roles
func (r Role) IsValid() bool {
	return r == RoleMentor || r == RoleMentee
}

// Complement returns the opposite role, the one matchmaking targets
func (r Role) Complement() Role {
	if r == RoleMentee {
		return RoleMentor
	}
	return RoleMentee
}

// Profile represents a participant in the directory
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Skills    []string  `json:"skills"`
	Interests []string  `json:"interests"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileFilter represents options for filtering directory listings.
// Skill and interest tokens match case-insensitively as substrings,
// mirroring the public directory search behavior.
type ProfileFilter struct {
	Role           Role
	SkillTokens    []string
	InterestTokens []string
}

// ParseFilterTokens splits a comma-separated query value into trimmed,
// non-empty tokens.
func ParseFilterTokens(raw string) []string {
	if raw == "" {
		return nil
	}

	tokens := []string{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// MatchResult pairs a candidate profile with its compatibility score against
// the subject. Derived per query, never persisted.
type MatchResult struct {
	ID                string   `json:"id"`
	Username          string   `json:"username"`
	Role              Role     `json:"role"`
	Skills            []string `json:"skills"`
	Interests         []string `json:"interests"`
	Bio               string   `json:"bio"`
	AvatarURL         string   `json:"avatarUrl"`
	Score             int      `json:"score"`
	MatchingSkills    []string `json:"matchingSkills"`
	MatchingInterests []string `json:"matchingInterests"`
}
