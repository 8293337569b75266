package application

import (
	"errors"
	"net/http"
	"strconv"

	"empanelment/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.List)
	rg.POST("/applications", h.Create)
	rg.POST("/applications/submit", h.Create)
	rg.GET("/applications/drafts", h.ListDrafts)
	rg.GET("/applications/:id", h.Get)
	rg.PUT("/applications/:id", h.Update)
	rg.GET("/applications/:id/history", h.History)
}

// RegisterReviewerRoutes holds the endpoints gated behind the reviewer role.
func (h *Handler) RegisterReviewerRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/applications/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	app, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, app)
}

func (h *Handler) Get(c *gin.Context) {
	app, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	app, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

func (h *Handler) List(c *gin.Context) {
	req := ListRequest{
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 10),
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	apps, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, apps, req.Page, req.Limit, total)
}

func (h *Handler) ListDrafts(c *gin.Context) {
	apps, _, err := h.service.ListDrafts(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, apps)
}

func (h *Handler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid application payload", vErr.Fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Application not found")
	case errors.Is(err, ErrEmptyUpdate):
		response.Error(c, http.StatusBadRequest, "EMPTY_UPDATE", "No fields to update")
	case errors.Is(err, ErrUnknownStatus):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_STATUS", "Unknown application status")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition is not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
