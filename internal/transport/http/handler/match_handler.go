package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"club-cms-api/internal/domain"
	"club-cms-api/internal/service"
	httpez "club-cms-api/internal/transport/http/ez"
)

type MatchHandler struct{ svc *service.MatchService }

func NewMatchHandler(svc *service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

type matchIn struct {
	Opponent    string    `json:"opponent"    binding:"required,max=120"`
	Competition string    `json:"competition" binding:"max=120"`
	Venue       string    `json:"venue"       binding:"max=160"`
	IsHome      bool      `json:"isHome"`
	KickoffAt   time.Time `json:"kickoffAt"   binding:"required"`
	Status      string    `json:"status"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
}

func (in *matchIn) input() service.MatchInput {
	return service.MatchInput{
		Opponent:    in.Opponent,
		Competition: in.Competition,
		Venue:       in.Venue,
		IsHome:      in.IsHome,
		KickoffAt:   in.KickoffAt,
		Status:      in.Status,
		HomeScore:   in.HomeScore,
		AwayScore:   in.AwayScore,
	}
}

func (h *MatchHandler) MountAPI(public, _ httpez.EZ) {
	type listQ struct {
		Status      string `form:"status"`
		Competition string `form:"competition"`
		Q           string `form:"q"`
		Upcoming    bool   `form:"upcoming"`
		domain.PageQuery
	}
	httpez.RegisterAction[listQ, domain.Page[domain.Match]](public, httpez.Action[listQ, domain.Page[domain.Match]]{
		Method: http.MethodGet,
		Path:   "/matches",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (domain.Page[domain.Match], error) {
			return h.svc.List(c.Request.Context(), service.MatchQuery{
				Status:      in.Status,
				Competition: in.Competition,
				Query:       in.Q,
				Upcoming:    in.Upcoming,
				PageQuery:   in.PageQuery,
			})
		},
	})

	httpez.RegisterAction[struct{}, *domain.Match](public, httpez.Action[struct{}, *domain.Match]{
		Method: http.MethodGet,
		Path:   "/matches/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Match, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})
}

func (h *MatchHandler) MountAdmin(admin httpez.EZ) {
	httpez.RegisterAction[matchIn, *domain.Match](admin, httpez.Action[matchIn, *domain.Match]{
		Method: http.MethodPost,
		Path:   "/matches",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *matchIn) (*domain.Match, error) {
			return h.svc.Create(c.Request.Context(), in.input())
		},
	})

	httpez.RegisterAction[matchIn, *domain.Match](admin, httpez.Action[matchIn, *domain.Match]{
		Method: http.MethodPut,
		Path:   "/matches/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *matchIn) (*domain.Match, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), in.input())
		},
	})

	httpez.RegisterAction[struct{}, gin.H](admin, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/matches/:id",
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
