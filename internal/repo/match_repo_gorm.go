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

type MatchRepo struct{ db *gorm.DB }

func NewMatchRepo(db *gorm.DB) *MatchRepo { return &MatchRepo{db: db} }

var _ domain.MatchRepository = (*MatchRepo)(nil)

func (r *MatchRepo) Create(ctx context.Context, m *domain.Match) error {
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("repo.MatchRepo.Create: %w", err)
	}
	return nil
}

func (r *MatchRepo) FindByID(ctx context.Context, id string) (*domain.Match, error) {
	var m domain.Match
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repo.MatchRepo.FindByID: %w", err)
	}
	return &m, nil
}

func (r *MatchRepo) List(ctx context.Context, f domain.MatchFilter) ([]domain.Match, int64, error) {
	const op = "repo.MatchRepo.List"
	page := f.PageQuery.Normalize()
	scope := func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if c := strings.TrimSpace(f.Competition); c != "" {
			q = q.Where("competition = ?", c)
		}
		if s := strings.TrimSpace(f.Query); s != "" {
			like := likePattern(s)
			q = q.Where("opponent LIKE ? ESCAPE '!' OR venue LIKE ? ESCAPE '!'", like, like)
		}
		if !f.From.IsZero() {
			q = q.Where("kickoff_at >= ?", f.From)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Match{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}
	order := "kickoff_at DESC"
	if !f.From.IsZero() {
		order = "kickoff_at ASC"
	}
	var items []domain.Match
	err := r.db.WithContext(ctx).Scopes(scope).
		Order(order).Order("id").
		Limit(page.Size).Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

// Update writes every column of m, so clearing a score persists as NULL.
func (r *MatchRepo) Update(ctx context.Context, m *domain.Match) error {
	res := r.db.WithContext(ctx).Model(m).Select("*").Omit("id", "created_at").Updates(m)
	if res.Error != nil {
		return fmt.Errorf("repo.MatchRepo.Update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

func (r *MatchRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Match{})
	if res.Error != nil {
		return fmt.Errorf("repo.MatchRepo.Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
