package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlscribe/sqlscribe/pkg/apperrors"
	"github.com/sqlscribe/sqlscribe/pkg/models"
)

type fakeQueryService struct {
	resp *models.QueryResponse
	err  error

	gotReq *models.QueryRequest
}

func (f *fakeQueryService) Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newQueryServer(svc *fakeQueryService) *http.ServeMux {
	mux := http.NewServeMux()
	NewQueryHandler(svc, nil).RegisterRoutes(mux)
	return mux
}

func TestQueryHandler_Success(t *testing.T) {
	svc := &fakeQueryService{
		resp: &models.QueryResponse{
			SQLQuery: "SELECT COUNT(*) FROM users;",
			Table:    "+-------+\n| count |\n|-------|\n| 42    |\n+-------+",
			Results:  []map[string]any{{"count": 42}},
			TokenUsage: &models.TokenUsage{
				PromptTokens:     120,
				CompletionTokens: 15,
				TotalTokens:      135,
			},
		},
	}
	mux := newQueryServer(svc)

	body := `{"question": "How many users are there?"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT COUNT(*) FROM users;", resp["sql_query"])
	assert.Contains(t, resp["table"], "count")
	assert.NotNil(t, resp["results"])

	usage, ok := resp["token_usage"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 135, usage["total_tokens"])

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, "How many users are there?", svc.gotReq.Question)
	assert.False(t, svc.gotReq.AllowModifications)
}

func TestQueryHandler_AllowModificationsDecoded(t *testing.T) {
	svc := &fakeQueryService{resp: &models.QueryResponse{}}
	mux := newQueryServer(svc)

	body := `{"question": "activate everyone", "allow_modifications": true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq)
	assert.True(t, svc.gotReq.AllowModifications)
}

func TestQueryHandler_InvalidBody(t *testing.T) {
	mux := newQueryServer(&fakeQueryService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "invalid request body")
}

func TestQueryHandler_UnsafeSQLReturns400(t *testing.T) {
	svc := &fakeQueryService{err: apperrors.ErrUnsafeSQL}
	mux := newQueryServer(svc)

	body := `{"question": "drop the users table"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "not safe to execute")
	assert.True(t, strings.HasPrefix(resp["detail"], "Error: "))
}

func TestQueryHandler_MethodNotAllowed(t *testing.T) {
	mux := newQueryServer(&fakeQueryService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/query", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
