package domain

import (
	"context"
	"strings"
	"time"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchLive      MatchStatus = "LIVE"
	MatchFinished  MatchStatus = "FINISHED"
	MatchPostponed MatchStatus = "POSTPONED"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchScheduled, MatchLive, MatchFinished, MatchPostponed:
		return true
	}
	return false
}

// HasScore reports whether a score is meaningful in this status.
func (s MatchStatus) HasScore() bool { return s == MatchLive || s == MatchFinished }

func ParseMatchStatus(s string) (MatchStatus, bool) {
	st := MatchStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

type Match struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	Opponent    string      `gorm:"size:120;not null" json:"opponent"`
	Competition string      `gorm:"size:120;index" json:"competition"`
	Venue       string      `gorm:"size:160" json:"venue"`
	IsHome      bool        `gorm:"not null" json:"isHome"`
	KickoffAt   time.Time   `gorm:"not null;index" json:"kickoffAt"`
	Status      MatchStatus `gorm:"size:16;not null;index" json:"status"`
	HomeScore   *int        `json:"homeScore"`
	AwayScore   *int        `json:"awayScore"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (Match) TableName() string { return "matches" }

// Validate checks the fields a client controls.
func (m *Match) Validate() error {
	if strings.TrimSpace(m.Opponent) == "" {
		return Validation("opponent is required")
	}
	if m.KickoffAt.IsZero() {
		return Validation("kickoffAt is required")
	}
	if !m.Status.Valid() {
		return Validation("status must be one of SCHEDULED, LIVE, FINISHED, POSTPONED")
	}
	if (m.HomeScore == nil) != (m.AwayScore == nil) {
		return Validation("homeScore and awayScore must be set together")
	}
	if m.HomeScore != nil {
		if !m.Status.HasScore() {
			return Validation("scores are only accepted for LIVE or FINISHED matches")
		}
		if *m.HomeScore < 0 || *m.AwayScore < 0 {
			return Validation("scores must not be negative")
		}
	}
	return nil
}

// MatchFilter selects matches. A non-zero From restricts to kickoffs at or
// after it and orders ascending; otherwise newest kickoff first.
type MatchFilter struct {
	Status      MatchStatus
	Competition string
	Query       string
	From        time.Time
	PageQuery
}

type MatchRepository interface {
	Create(ctx context.Context, m *Match) error
	FindByID(ctx context.Context, id string) (*Match, error)
	List(ctx context.Context, f MatchFilter) ([]Match, int64, error)
	Update(ctx context.Context, m *Match) error
	Delete(ctx context.Context, id string) error
}
