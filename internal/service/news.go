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

const newsNS = "news"

type NewsInput struct {
	Title     string
	Summary   string
	Content   string
	ImageURL  string
	Published bool
}

func (in NewsInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Validation("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return domain.Validation("content is required")
	}
	return nil
}

func (in NewsInput) apply(n *domain.News) {
	n.Title = strings.TrimSpace(in.Title)
	n.Summary = in.Summary
	n.Content = in.Content
	n.ImageURL = in.ImageURL
	n.Published = in.Published
}

// NewsService serves published news to everyone and the full set to admins.
// Public reads go through the cache; every write invalidates it.
type NewsService struct {
	repo  domain.NewsRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewNewsService(repo domain.NewsRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *NewsService {
	return &NewsService{repo: repo, cache: c, ttl: ttl, log: log}
}

func (s *NewsService) ListPublished(ctx context.Context, query string, page domain.PageQuery) (domain.Page[domain.News], error) {
	page = page.Normalize()
	key := s.cache.VersionedKey(ctx, newsNS, "list", query, strconv.Itoa(page.Page), strconv.Itoa(page.Size))
	p, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) (*domain.Page[domain.News], error) {
		p, err := s.List(ctx, domain.NewsFilter{Query: query, PublishedOnly: true, PageQuery: page})
		return &p, err
	})
	if err != nil {
		return domain.Page[domain.News]{}, err
	}
	return *p, nil
}

func (s *NewsService) GetPublished(ctx context.Context, id string) (*domain.News, error) {
	key := s.cache.VersionedKey(ctx, newsNS, "item", id)
	return cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) (*domain.News, error) {
		n, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !n.Published {
			return nil, domain.ErrNewsNotFound
		}
		return n, nil
	})
}

func (s *NewsService) List(ctx context.Context, f domain.NewsFilter) (domain.Page[domain.News], error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return domain.Page[domain.News]{}, err
	}
	return domain.NewPage(items, total, f.PageQuery), nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*domain.News, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *NewsService) Create(ctx context.Context, authorID string, in NewsInput) (*domain.News, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	n := &domain.News{AuthorID: authorID}
	in.apply(n)
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *NewsService) Update(ctx context.Context, id string, in NewsInput) (*domain.News, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(n)
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *NewsService) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx, newsNS); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("ns", newsNS), zap.Error(err))
	}
}
