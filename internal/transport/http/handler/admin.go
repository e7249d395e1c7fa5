package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/transport/http/response"
)

// AdminHandler exposes cache introspection and session history.
type AdminHandler struct {
	queryService *app.QueryService
}

func NewAdminHandler(queryService *app.QueryService) *AdminHandler {
	return &AdminHandler{queryService: queryService}
}

func (h *AdminHandler) CacheStats(c *gin.Context) {
	response.OK(c, h.queryService.CacheStats())
}

func (h *AdminHandler) ClearCaches(c *gin.Context) {
	h.queryService.ClearCaches()
	response.OK(c, gin.H{"cleared": true})
}

func (h *AdminHandler) SessionHistory(c *gin.Context) {
	sessionID := c.Param("id")
	history, err := h.queryService.SessionHistory(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load session history failed")
		}
		return
	}
	response.OK(c, gin.H{
		"session_id": sessionID,
		"entries":    history,
	})
}
