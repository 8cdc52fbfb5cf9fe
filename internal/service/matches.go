package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"club-cms-api/internal/core/cache"
	"club-cms-api/internal/domain"
)

const matchesNS = "matches"

type MatchInput struct {
	Opponent    string
	Competition string
	Venue       string
	IsHome      bool
	KickoffAt   time.Time
	Status      string
	HomeScore   *int
	AwayScore   *int
}

// MatchQuery is the public listing filter. Upcoming restricts to kickoffs
// from now on, soonest first.
type MatchQuery struct {
	Status      string
	Competition string
	Query       string
	Upcoming    bool
	domain.PageQuery
}

type MatchService struct {
	repo  domain.MatchRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewMatchService(repo domain.MatchRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *MatchService {
	return &MatchService{repo: repo, cache: c, ttl: ttl, log: log, now: time.Now}
}

// List answers from the cache. An upcoming listing may keep showing a match
// for up to one cache TTL after kickoff.
func (s *MatchService) List(ctx context.Context, q MatchQuery) (domain.Page[domain.Match], error) {
	f, err := s.filter(q)
	if err != nil {
		return domain.Page[domain.Match]{}, err
	}
	key := s.cache.VersionedKey(ctx, matchesNS, "list",
		string(f.Status), f.Competition, f.Query, strconv.FormatBool(q.Upcoming),
		strconv.Itoa(f.Page), strconv.Itoa(f.Size))
	p, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) (*domain.Page[domain.Match], error) {
		items, total, err := s.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		p := domain.NewPage(items, total, f.PageQuery)
		return &p, nil
	})
	if err != nil {
		return domain.Page[domain.Match]{}, err
	}
	return *p, nil
}

func (s *MatchService) filter(q MatchQuery) (domain.MatchFilter, error) {
	f := domain.MatchFilter{
		Competition: strings.TrimSpace(q.Competition),
		Query:       strings.TrimSpace(q.Query),
		PageQuery:   q.PageQuery.Normalize(),
	}
	if q.Status != "" {
		st, ok := domain.ParseMatchStatus(q.Status)
		if !ok {
			return f, domain.Validation("status must be one of SCHEDULED, LIVE, FINISHED, POSTPONED")
		}
		f.Status = st
	}
	if q.Upcoming {
		f.From = s.now().UTC()
	}
	return f, nil
}

func (s *MatchService) Get(ctx context.Context, id string) (*domain.Match, error) {
	key := s.cache.VersionedKey(ctx, matchesNS, "item", id)
	return cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) (*domain.Match, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *MatchService) Create(ctx context.Context, in MatchInput) (*domain.Match, error) {
	m := &domain.Match{}
	if err := applyMatch(m, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return m, nil
}

func (s *MatchService) Update(ctx context.Context, id string, in MatchInput) (*domain.Match, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyMatch(m, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return m, nil
}

func (s *MatchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MatchService) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx, matchesNS); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("ns", matchesNS), zap.Error(err))
	}
}

// applyMatch copies in onto m and validates the result. An empty status means
// SCHEDULED.
func applyMatch(m *domain.Match, in MatchInput) error {
	status := domain.MatchScheduled
	if in.Status != "" {
		st, ok := domain.ParseMatchStatus(in.Status)
		if !ok {
			return domain.Validation("status must be one of SCHEDULED, LIVE, FINISHED, POSTPONED")
		}
		status = st
	}
	m.Opponent = strings.TrimSpace(in.Opponent)
	m.Competition = strings.TrimSpace(in.Competition)
	m.Venue = strings.TrimSpace(in.Venue)
	m.IsHome = in.IsHome
	m.KickoffAt = in.KickoffAt.UTC()
	m.Status = status
	m.HomeScore = in.HomeScore
	m.AwayScore = in.AwayScore
	return m.Validate()
}
