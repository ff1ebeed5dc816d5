package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfinsight/internal/app"
	"pdfinsight/internal/transport/http/response"
)

type AnalysisHandler struct {
	analysisService *app.AnalysisService
	previewService  *app.PreviewService
}

func NewAnalysisHandler(analysisService *app.AnalysisService, previewService *app.PreviewService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		previewService:  previewService,
	}
}

// CreateFull enqueues a full analysis and returns 202 with the pending job.
func (h *AnalysisHandler) CreateFull(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	documentID, ok := getIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	job, err := h.analysisService.CreateFullAnalysis(c.Request.Context(), userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		case errors.Is(err, app.ErrConflict):
			response.Error(c, http.StatusConflict, response.CodeConflict, "an analysis is already running for this document")
		case errors.Is(err, app.ErrQuotaExceeded):
			response.Error(c, http.StatusTooManyRequests, response.CodeQuotaExceeded, "daily analysis quota exceeded")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "start analysis failed")
		}
		return
	}

	c.JSON(http.StatusAccepted, response.APIResponse{
		Code:    response.CodeOK,
		Message: "ok",
		Data: gin.H{
			"job_id":      job.ID,
			"document_id": job.DocumentID,
			"status":      job.Status,
		},
	})
}

func (h *AnalysisHandler) JobStatus(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	jobID, ok := getIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid job id")
		return
	}

	status, err := h.analysisService.GetStatus(c.Request.Context(), userID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "job not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch job status failed")
		}
		return
	}

	response.OK(c, status)
}

// Preview runs the synchronous first-pages extraction. A text-less PDF is a
// 200 with status FAILED; only infrastructure and parse errors are 5xx.
func (h *AnalysisHandler) Preview(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	documentID, ok := getIDParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	refresh := c.Query("refresh") == "1"
	result, err := h.previewService.Generate(c.Request.Context(), userID, documentID, refresh)
	if err != nil {
		var extractErr *app.ExtractionError
		switch {
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		case errors.Is(err, app.ErrConflict):
			response.Error(c, http.StatusConflict, response.CodeConflict, "a preview is already running for this document")
		case errors.As(err, &extractErr):
			response.Error(c, http.StatusInternalServerError, response.CodeExtractionFailed, "preview extraction failed")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "preview failed")
		}
		return
	}

	response.OK(c, result)
}
