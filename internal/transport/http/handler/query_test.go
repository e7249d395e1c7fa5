package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eidbi-query-system/internal/ai"
	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/cache"
	"eidbi-query-system/internal/corpus"
	"eidbi-query-system/internal/model"
	"eidbi-query-system/internal/retrieval"
	"eidbi-query-system/internal/transport/http/response"
)

type fixedGenerator struct {
	answer string
}

func (g *fixedGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.answer, nil
}

func newQueryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := corpus.NewStore()
	store.Replace([]model.Chunk{
		{ID: "a", Text: "EIDBI services include intervention and therapy.", SourceName: "DHS Manual"},
	}, nil)

	queryCache, err := cache.NewQueryCache[app.QueryResponse](10)
	require.NoError(t, err)
	embedder := ai.NewHashEmbedder(32)
	embedCache, err := cache.NewCachingEmbedder(embedder, 10)
	require.NoError(t, err)

	svc := app.NewQueryService(
		store,
		retrieval.NewRetriever(embedCache, retrieval.Options{}),
		retrieval.NewReranker(8),
		&fixedGenerator{answer: "Generated answer."},
		queryCache,
		embedCache,
		nil,
		"2.0.0",
		time.Second,
	)

	router := gin.New()
	router.POST("/api/v1/query", NewQueryHandler(svc).Query)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQueryHandler_Query(t *testing.T) {
	router := newQueryRouter(t)

	w := postJSON(t, router, "/api/v1/query", gin.H{"query_text": "What services does EIDBI offer?"})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Data    app.QueryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.Equal(t, response.CodeOK, envelope.Code)
	assert.Equal(t, "Generated answer.", envelope.Data.Answer)
	assert.Equal(t, "services", envelope.Data.QueryType)
	assert.Equal(t, "2.0.0", envelope.Data.Version)
	assert.False(t, envelope.Data.Cached)
	assert.NotEmpty(t, envelope.Data.RetrievedChunkIDs)
}

func TestQueryHandler_CachedOnRepeat(t *testing.T) {
	router := newQueryRouter(t)

	payload := gin.H{"query_text": "What services does EIDBI offer?"}
	first := postJSON(t, router, "/api/v1/query", payload)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, router, "/api/v1/query", payload)
	require.Equal(t, http.StatusOK, second.Code)

	var envelope struct {
		Data app.QueryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Cached)
}

func TestQueryHandler_MissingQueryText(t *testing.T) {
	router := newQueryRouter(t)

	w := postJSON(t, router, "/api/v1/query", gin.H{"num_results": 3})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, response.CodeBadRequest, envelope.Code)
}

func TestBoolOrDefault(t *testing.T) {
	t.Parallel()

	yes := true
	no := false
	assert.True(t, boolOrDefault(nil, true))
	assert.False(t, boolOrDefault(&no, true))
	assert.True(t, boolOrDefault(&yes, false))
}
