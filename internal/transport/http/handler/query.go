package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/transport/http/response"
)

type QueryHandler struct {
	queryService *app.QueryService
}

// QueryRequest mirrors the public query contract. The three feature toggles
// are pointers so that an omitted field defaults to true rather than false.
type QueryRequest struct {
	QueryText          string `json:"query_text" binding:"required"`
	NumResults         int    `json:"num_results"`
	UseHybridSearch    *bool  `json:"use_hybrid_search"`
	UseReranking       *bool  `json:"use_reranking"`
	UseEnhancedPrompts *bool  `json:"use_enhanced_prompts"`
	UserSessionID      string `json:"user_session_id"`
}

func NewQueryHandler(queryService *app.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.queryService.Query(c.Request.Context(), app.QueryInput{
		QueryText:          req.QueryText,
		NumResults:         req.NumResults,
		UseHybridSearch:    boolOrDefault(req.UseHybridSearch, true),
		UseReranking:       boolOrDefault(req.UseReranking, true),
		UseEnhancedPrompts: boolOrDefault(req.UseEnhancedPrompts, true),
		UserSessionID:      req.UserSessionID,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "query failed")
		}
		return
	}

	response.OK(c, result)
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
