package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/model"
	"eidbi-query-system/internal/transport/http/response"
)

type FeedbackHandler struct {
	feedbackService *app.FeedbackService
}

type SubmitFeedbackRequest struct {
	QueryText    string   `json:"query_text" binding:"required"`
	ResponseText string   `json:"response_text"`
	FeedbackType string   `json:"feedback_type" binding:"required"`
	Rating       int      `json:"rating"`
	Categories   []string `json:"categories"`
	Details      string   `json:"details"`
	SearchMethod string   `json:"search_method"`
	SessionID    string   `json:"session_id"`
}

func NewFeedbackHandler(feedbackService *app.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	err := h.feedbackService.Submit(c.Request.Context(), model.FeedbackRecord{
		QueryText:    req.QueryText,
		ResponseText: req.ResponseText,
		FeedbackType: req.FeedbackType,
		Rating:       req.Rating,
		Categories:   strings.Join(req.Categories, ","),
		Details:      req.Details,
		SearchMethod: req.SearchMethod,
		SessionID:    req.SessionID,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "submit feedback failed")
		}
		return
	}

	response.OK(c, gin.H{"accepted": true})
}

func (h *FeedbackHandler) Stats(c *gin.Context) {
	stats, err := h.feedbackService.Stats()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "feedback stats failed")
		return
	}
	response.OK(c, stats)
}
