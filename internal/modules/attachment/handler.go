package attachment

import (
	"errors"
	"net/http"
	"strconv"

	"empanelment/internal/pkg/response"
	"empanelment/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications/upload", h.Upload)
	rg.GET("/applications/:id/files", h.ListByApplication)
	rg.DELETE("/files/:id", h.Delete)
}

// Upload accepts multipart form data: an application_id field plus one or
// more "files" parts. Files are saved independently; the response reports
// the stored subset.
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Error parsing form data")
		return
	}

	applicationID := c.PostForm("application_id")
	if applicationID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Application ID is required")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No files provided")
		return
	}

	saved, err := h.service.Attach(c.Request.Context(), applicationID, files)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Application not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Upload failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"files":    saved,
		"uploaded": len(saved),
		"skipped":  len(files) - len(saved),
	})
}

func (h *Handler) ListByApplication(c *gin.Context) {
	files, err := h.service.ListByApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not list files")
		return
	}
	response.Success(c, http.StatusOK, files)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not delete file")
		return
	}
	response.Success(c, http.StatusOK, nil)
}
