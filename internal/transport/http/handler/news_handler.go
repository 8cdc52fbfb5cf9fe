package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"club-cms-api/internal/domain"
	"club-cms-api/internal/service"
	httpez "club-cms-api/internal/transport/http/ez"
)

type NewsHandler struct{ svc *service.NewsService }

func NewNewsHandler(svc *service.NewsService) *NewsHandler { return &NewsHandler{svc: svc} }

type newsListQ struct {
	Q string `form:"q"`
	domain.PageQuery
}

type newsIn struct {
	Title     string `json:"title"     binding:"required,max=200"`
	Summary   string `json:"summary"   binding:"max=500"`
	Content   string `json:"content"   binding:"required"`
	ImageURL  string `json:"imageUrl"  binding:"omitempty,url,max=500"`
	Published bool   `json:"published"`
}

func (in *newsIn) input() service.NewsInput {
	return service.NewsInput{
		Title:     in.Title,
		Summary:   in.Summary,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Published: in.Published,
	}
}

// MountAPI exposes published news only.
func (h *NewsHandler) MountAPI(public, _ httpez.EZ) {
	httpez.RegisterAction[newsListQ, domain.Page[domain.News]](public, httpez.Action[newsListQ, domain.Page[domain.News]]{
		Method: http.MethodGet,
		Path:   "/news",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *newsListQ) (domain.Page[domain.News], error) {
			return h.svc.ListPublished(c.Request.Context(), in.Q, in.PageQuery)
		},
	})

	httpez.RegisterAction[struct{}, *domain.News](public, httpez.Action[struct{}, *domain.News]{
		Method: http.MethodGet,
		Path:   "/news/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.News, error) {
			return h.svc.GetPublished(c.Request.Context(), c.Param("id"))
		},
	})
}

func (h *NewsHandler) MountAdmin(admin httpez.EZ) {
	type adminListQ struct {
		Q         string `form:"q"`
		Published *bool  `form:"published"`
		domain.PageQuery
	}
	httpez.RegisterAction[adminListQ, domain.Page[domain.News]](admin, httpez.Action[adminListQ, domain.Page[domain.News]]{
		Method: http.MethodGet,
		Path:   "/news",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *adminListQ) (domain.Page[domain.News], error) {
			return h.svc.List(c.Request.Context(), domain.NewsFilter{
				Query:         in.Q,
				PublishedOnly: in.Published != nil && *in.Published,
				PageQuery:     in.PageQuery,
			})
		},
	})

	httpez.RegisterAction[struct{}, *domain.News](admin, httpez.Action[struct{}, *domain.News]{
		Method: http.MethodGet,
		Path:   "/news/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.News, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	httpez.RegisterAction[newsIn, *domain.News](admin, httpez.Action[newsIn, *domain.News]{
		Method: http.MethodPost,
		Path:   "/news",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *newsIn) (*domain.News, error) {
			author, err := identity(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Create(c.Request.Context(), author, in.input())
		},
	})

	httpez.RegisterAction[newsIn, *domain.News](admin, httpez.Action[newsIn, *domain.News]{
		Method: http.MethodPut,
		Path:   "/news/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *newsIn) (*domain.News, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), in.input())
		},
	})

	httpez.RegisterAction[struct{}, gin.H](admin, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/news/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
