package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdfinsight/internal/app"
	"pdfinsight/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
}

type CreateDocumentRequest struct {
	Title        string `json:"title" binding:"max=255"`
	OriginalName string `json:"original_name" binding:"required,max=255"`
	FilePath     string `json:"file_path" binding:"required,max=512"`
	FileSize     int64  `json:"file_size" binding:"required,gt=0"`
	MimeType     string `json:"mime_type" binding:"required"`
	Checksum     string `json:"checksum" binding:"max=64"`
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	doc, err := h.documentService.Create(app.CreateDocumentInput{
		OwnerID:      userID,
		Title:        req.Title,
		OriginalName: req.OriginalName,
		FilePath:     req.FilePath,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		Checksum:     req.Checksum,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create document failed")
		}
		return
	}

	response.OK(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	page, pageSize := getPagination(c)
	docs, total, err := h.documentService.List(userID, page, pageSize)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}

	response.OK(c, gin.H{
		"documents": docs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *DocumentHandler) Detail(c *gin.Context) {
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

	detail, err := h.documentService.Detail(userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch document failed")
		}
		return
	}

	response.OK(c, detail)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
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

	if err := h.documentService.Delete(userID, documentID); err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_document_id": documentID})
}

func (h *DocumentHandler) Chunks(c *gin.Context) {
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

	page, pageSize := getPagination(c)
	chunks, total, err := h.documentService.Chunks(userID, documentID, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list chunks failed")
		}
		return
	}

	response.OK(c, gin.H{
		"chunks":    chunks,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *DocumentHandler) Overview(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	overview, err := h.documentService.Overview(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch overview failed")
		return
	}

	response.OK(c, overview)
}

func (h *DocumentHandler) Recent(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	docs, err := h.documentService.Recent(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch recent documents failed")
		return
	}

	response.OK(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Events(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	page, pageSize := getPagination(c)
	jobs, total, err := h.documentService.Events(userID, page, pageSize)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list events failed")
		return
	}

	response.OK(c, gin.H{
		"events":    jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func getIDParam(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

func getPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
