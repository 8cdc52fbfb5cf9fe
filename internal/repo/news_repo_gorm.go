package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"club-cms-api/internal/domain"
	"club-cms-api/pkg/utils"
)

type NewsRepo struct{ db *gorm.DB }

func NewNewsRepo(db *gorm.DB) *NewsRepo { return &NewsRepo{db: db} }

var _ domain.NewsRepository = (*NewsRepo)(nil)

func (r *NewsRepo) Create(ctx context.Context, n *domain.News) error {
	if n.ID == "" {
		n.ID = utils.NewID()
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("repo.NewsRepo.Create: %w", err)
	}
	return nil
}

func (r *NewsRepo) FindByID(ctx context.Context, id string) (*domain.News, error) {
	var n domain.News
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNewsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repo.NewsRepo.FindByID: %w", err)
	}
	return &n, nil
}

func (r *NewsRepo) List(ctx context.Context, f domain.NewsFilter) ([]domain.News, int64, error) {
	const op = "repo.NewsRepo.List"
	page := f.PageQuery.Normalize()
	scope := func(q *gorm.DB) *gorm.DB {
		if f.PublishedOnly {
			q = q.Where("published = ?", true)
		}
		if s := strings.TrimSpace(f.Query); s != "" {
			like := likePattern(s)
			q = q.Where("title LIKE ? ESCAPE '!' OR summary LIKE ? ESCAPE '!'", like, like)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.News{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}
	var items []domain.News
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC").Order("id").
		Limit(page.Size).Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

// Update writes every column of n, zero values included.
func (r *NewsRepo) Update(ctx context.Context, n *domain.News) error {
	res := r.db.WithContext(ctx).Model(n).Select("*").Omit("id", "created_at").Updates(n)
	if res.Error != nil {
		return fmt.Errorf("repo.NewsRepo.Update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}

func (r *NewsRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.News{})
	if res.Error != nil {
		return fmt.Errorf("repo.NewsRepo.Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}
