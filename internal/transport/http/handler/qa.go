package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfinsight/internal/app"
	"pdfinsight/internal/transport/http/response"
)

type QAHandler struct {
	qaService *app.QAService
}

type AskRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}

func NewQAHandler(qaService *app.QAService) *QAHandler {
	return &QAHandler{qaService: qaService}
}

func (h *QAHandler) Ask(c *gin.Context) {
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

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.qaService.Ask(c.Request.Context(), userID, documentID, req.Question)
	if err != nil {
		var analyzerErr *app.AnalyzerError
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		case errors.Is(err, app.ErrQuotaExceeded):
			response.Error(c, http.StatusTooManyRequests, response.CodeQuotaExceeded, "daily question quota exceeded")
		case errors.As(err, &analyzerErr):
			response.Error(c, http.StatusInternalServerError, response.CodeAnalyzerFailed, "answer generation failed")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "answer question failed")
		}
		return
	}

	response.OK(c, result)
}
