package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/model"
	"eidbi-query-system/internal/transport/http/response"
)

type IngestHandler struct {
	ingestService *app.IngestService
}

type IngestChunksRequest struct {
	Chunks  []model.Chunk `json:"chunks" binding:"required"`
	Replace bool          `json:"replace"`
}

type IngestFactsRequest struct {
	Facts []model.StructuredFact `json:"facts" binding:"required"`
}

func NewIngestHandler(ingestService *app.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

func (h *IngestHandler) IngestChunks(c *gin.Context) {
	var req IngestChunksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), req.Chunks, nil, req.Replace)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest chunks failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *IngestHandler) IngestFacts(c *gin.Context) {
	var req IngestFactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), nil, req.Facts, false)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest facts failed")
		}
		return
	}

	response.OK(c, result)
}
