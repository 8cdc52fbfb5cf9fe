package domain

import (
	"context"
	"time"
)

type News struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Summary   string    `gorm:"size:500" json:"summary"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"size:500" json:"imageUrl"`
	Published bool      `gorm:"not null;index" json:"published"`
	AuthorID  string    `gorm:"size:36;index" json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (News) TableName() string { return "news" }

type NewsFilter struct {
	Query         string
	PublishedOnly bool
	PageQuery
}

type NewsRepository interface {
	Create(ctx context.Context, n *News) error
	FindByID(ctx context.Context, id string) (*News, error)
	List(ctx context.Context, f NewsFilter) ([]News, int64, error)
	Update(ctx context.Context, n *News) error
	Delete(ctx context.Context, id string) error
}
