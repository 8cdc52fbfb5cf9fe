package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"club-cms-api/internal/core/cache"
	"club-cms-api/internal/domain"
	"club-cms-api/internal/repo"
	"club-cms-api/internal/repo/repotest"
)

type countingNewsRepo struct {
	domain.NewsRepository
	lists int
}

func (r *countingNewsRepo) List(ctx context.Context, f domain.NewsFilter) ([]domain.News, int64, error) {
	r.lists++
	return r.NewsRepository.List(ctx, f)
}

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewsService_PublicReadsAreCachedAndInvalidated(t *testing.T) {
	nr := &countingNewsRepo{NewsRepository: repo.NewNewsRepo(repotest.OpenSQLite(t))}
	s := NewNewsService(nr, newCache(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := s.Create(ctx, "a1", NewsInput{Title: "Opener", Content: "We won", Published: true})
	require.NoError(t, err)
	_, err = s.Create(ctx, "a1", NewsInput{Title: "Draft", Content: "tbd"})
	require.NoError(t, err)

	p, err := s.ListPublished(ctx, "", domain.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)
	p, err = s.ListPublished(ctx, "", domain.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)
	assert.Equal(t, 1, nr.lists)

	_, err = s.Create(ctx, "a1", NewsInput{Title: "Second", Content: "Another", Published: true})
	require.NoError(t, err)
	p, err = s.ListPublished(ctx, "", domain.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)
	assert.Equal(t, 2, nr.lists)

	all, err := s.List(ctx, domain.NewsFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
}

func TestNewsService_GetPublishedHidesDrafts(t *testing.T) {
	s := NewNewsService(repo.NewNewsRepo(repotest.OpenSQLite(t)), newCache(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	draft, err := s.Create(ctx, "a1", NewsInput{Title: "Draft", Content: "tbd"})
	require.NoError(t, err)

	_, err = s.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNewsNotFound)

	got, err := s.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AuthorID)

	_, err = s.Update(ctx, draft.ID, NewsInput{Title: "Draft", Content: "done", Published: true})
	require.NoError(t, err)
	pub, err := s.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", pub.Content)

	require.NoError(t, s.Delete(ctx, draft.ID))
	_, err = s.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNewsNotFound)
	assert.ErrorIs(t, s.Delete(ctx, draft.ID), domain.ErrNewsNotFound)
}

func TestNewsService_Validation(t *testing.T) {
	s := NewNewsService(repo.NewNewsRepo(repotest.OpenSQLite(t)), cache.New("", "", 0), time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := s.Create(ctx, "a1", NewsInput{Content: "x"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = s.Create(ctx, "a1", NewsInput{Title: "x"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = s.Update(ctx, "missing", NewsInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, domain.ErrNewsNotFound)
}

func TestMatchService(t *testing.T) {
	s := NewMatchService(repo.NewMatchRepo(repotest.OpenSQLite(t)), newCache(t), time.Minute, zap.NewNop())
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	past, err := s.Create(ctx, MatchInput{Opponent: "Rovers", KickoffAt: now.Add(-72 * time.Hour), Status: "finished", HomeScore: intp(3), AwayScore: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, domain.MatchFinished, past.Status)

	next, err := s.Create(ctx, MatchInput{Opponent: "City", Competition: "Cup", KickoffAt: now.Add(72 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, domain.MatchScheduled, next.Status)

	p, err := s.List(ctx, MatchQuery{Upcoming: true})
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, next.ID, p.Items[0].ID)

	p, err = s.List(ctx, MatchQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)

	_, err = s.List(ctx, MatchQuery{Status: "ABANDONED"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = s.Update(ctx, next.ID, MatchInput{Opponent: "City", KickoffAt: next.KickoffAt, Status: "SCHEDULED", HomeScore: intp(1), AwayScore: intp(0)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	upd, err := s.Update(ctx, next.ID, MatchInput{Opponent: "City", Competition: "Cup", KickoffAt: next.KickoffAt, Status: "POSTPONED"})
	require.NoError(t, err)
	got, err := s.Get(ctx, upd.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchPostponed, got.Status)

	p, err = s.List(ctx, MatchQuery{Status: "postponed"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)

	require.NoError(t, s.Delete(ctx, past.ID))
	_, err = s.Get(ctx, past.ID)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestMatchService_ListCacheKeysKeepFiltersApart(t *testing.T) {
	s := NewMatchService(repo.NewMatchRepo(repotest.OpenSQLite(t)), newCache(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := s.Create(ctx, MatchInput{Opponent: "Rivals", Competition: "Cup", Venue: "Bay:Rivals Ground", KickoffAt: time.Date(2026, 11, 1, 15, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	p, err := s.List(ctx, MatchQuery{Competition: "Cup", Query: "y:Rivals"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)

	p, err = s.List(ctx, MatchQuery{Competition: "Cup:y", Query: "Rivals"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Total)
	assert.Empty(t, p.Items)
}

func intp(v int) *int { return &v }
