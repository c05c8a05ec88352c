package upload

import (
	"errors"
	"net/http"
	"strconv"

	"silkscan/internal/classifier"
	"silkscan/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for silkworm image submissions.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit accepts one multipart image, runs it through the classifier and
// returns the persisted verdict.
func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrNoFile.Error())
		return
	}

	result, err := h.service.Submit(c.Request.Context(), userID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFile), errors.Is(err, ErrEmptyFile),
			errors.Is(err, ErrNotImage), errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, classifier.ErrUnavailable):
			response.Error(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
				"Prediction service is unavailable, please try again later")
		case errors.Is(err, classifier.ErrPrediction):
			response.Error(c, http.StatusInternalServerError, "SERVICE_ERROR",
				"Failed to classify the image")
		case errors.Is(err, ErrDuplicateFile):
			response.Error(c, http.StatusConflict, "DUPLICATE_FILE", err.Error())
		case errors.Is(err, ErrPersistence):
			response.Error(c, http.StatusInternalServerError, "PERSISTENCE_ERROR",
				"Failed to save the upload record")
		default:
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, toUploadResponse(result.Record))
}

// History returns the caller's submissions, most recent first.
func (h *Handler) History(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.service.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "HISTORY_FAILED", "Failed to list uploads")
		return
	}

	items := make([]UploadResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toUploadResponse(rec))
	}
	response.Success(c, http.StatusOK, gin.H{"uploads": items})
}

// Stats returns per-label counts and average confidence for the caller.
func (h *Handler) Stats(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STATS_FAILED", "Failed to compute stats")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
