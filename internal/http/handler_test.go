package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fault-service/internal/auth"
	"fault-service/internal/config"
	"fault-service/internal/db/dbtest"
	"fault-service/internal/http/middleware"
	"fault-service/internal/model"
	"fault-service/internal/repository"
	"fault-service/internal/service"
)

const testSecret = "test-secret"

type testServer struct {
	router *gin.Engine
	tokens *auth.Parser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewFaultRepository(dbtest.Open(t))
	svc := service.NewFaultService(repo, time.UTC)
	handler := NewHandler(svc, zerolog.Nop())
	handler.now = func() time.Time { return time.Date(2025, 10, 30, 9, 0, 0, 0, time.UTC) }

	tokens := auth.NewParser(testSecret)
	limits := config.RateLimitConfig{WritePerMinute: 1000, ExportPerMinute: 1000, DefaultPerHour: 1000, DefaultPerDay: 1000}
	return &testServer{
		router: NewRouter(handler, middleware.Auth(tokens), "test", limits),
		tokens: tokens,
	}
}

func (s *testServer) token(t *testing.T, role model.UserRole) string {
	t.Helper()
	tok, err := s.tokens.Issue(model.Principal{UserID: uuid.New(), Role: role}, jwt.RegisteredClaims{})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const rawReport = "发现人员：张三\n时间：2025年10月29日15：53\n车辆信息：AGV-07\n报警描述：避障雷达误报\n解决办法：清洁雷达\n责任人：￳@李四￰"

func TestParseEndpoint(t *testing.T) {
	s := newTestServer(t)
	op := s.token(t, model.UserRoleOperator)

	rec := s.do(t, http.MethodPost, "/api/v1/faults/parse", op, gin.H{"raw_text": rawReport})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "李四", data["responsible_person"])
	assert.Equal(t, "OBSTACLE_AVOIDANCE_ANOMALY", data["category"])
	assert.Equal(t, "PENDING", data["status"])

	rec = s.do(t, http.MethodPost, "/api/v1/faults/parse", op, gin.H{"raw_text": "发现人员：张三"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["missing"], "time")
	assert.Equal(t, "张三", body["extracted"].(map[string]any)["reporter"])
}

func TestWriteRoutesRequireOperator(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/faults/parse", "", gin.H{"raw_text": rawReport})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/faults/parse", "garbage", gin.H{"raw_text": rawReport})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/faults/parse", s.token(t, model.UserRoleViewer), gin.H{"raw_text": rawReport})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateEndpoint(t *testing.T) {
	s := newTestServer(t)
	op := s.token(t, model.UserRoleAdmin)
	body := gin.H{
		"reporter_name": "张三",
		"fault_time":    "2025-10-29T15:53",
		"vehicle_id":    "AGV-07",
		"category":      "mechanical_fault",
	}

	rec := s.do(t, http.MethodPost, "/api/v1/faults", op, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "MECHANICAL_FAULT", decode(t, rec)["data"].(map[string]any)["category"])

	body["fault_time"] = "2025-10-29 15:53"
	rec = s.do(t, http.MethodPost, "/api/v1/faults", op, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "fault_time", out["field"])
	assert.Contains(t, out["error"], "invalid timestamp")
}

func TestListAndUpdateEndpoints(t *testing.T) {
	s := newTestServer(t)
	op := s.token(t, model.UserRoleOperator)

	for i := 0; i < 3; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/faults/parse", op, gin.H{"raw_text": rawReport})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/faults?page=99&per_page=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	page := data["page"].(map[string]any)
	assert.EqualValues(t, 1, page["page"])
	assert.EqualValues(t, 5, page["per_page"])
	assert.EqualValues(t, 3, page["total_items"])
	assert.Len(t, data["items"], 3)

	rec = s.do(t, http.MethodGet, "/api/v1/faults?per_page=7&search_status=pending", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode(t, rec)["data"].(map[string]any)["page"].(map[string]any)
	assert.EqualValues(t, 5, page["per_page"])
	assert.EqualValues(t, 3, page["total_items"])

	rec = s.do(t, http.MethodGet, "/api/v1/faults?search_start_date=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/faults/1", op, gin.H{"status": "resolved", "resolution_log": "done"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/faults/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fault := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "RESOLVED", fault["status"])
	assert.Equal(t, "done", fault["resolution_log"])

	rec = s.do(t, http.MethodGet, "/api/v1/faults/1/history", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"].(map[string]any)["items"], 1)

	rec = s.do(t, http.MethodPut, "/api/v1/faults/42", op, gin.H{"status": "RESOLVED"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/faults/1", op, gin.H{"status": "CLOSED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/faults/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	s := newTestServer(t)
	op := s.token(t, model.UserRoleOperator)
	rec := s.do(t, http.MethodPost, "/api/v1/faults/parse", op, gin.H{"raw_text": rawReport})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/statistics?group_by=dropTable", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "category", data["group_by"])
	assert.NotEmpty(t, data["advisory"])
	chart := data["chart"].(map[string]any)
	assert.Equal(t, []any{"避障异常"}, chart["labels"])
	assert.Equal(t, "OBSTACLE_AVOIDANCE_ANOMALY", data["rows"].([]any)[0].(map[string]any)["group_key"])
	assert.Equal(t, []any{float64(1)}, chart["counts"])

	rec = s.do(t, http.MethodGet, "/api/v1/statistics?group_by=by_date", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decode(t, rec)["data"].(map[string]any)
	assert.Nil(t, data["advisory"])
	assert.Equal(t, []any{"2025-10-29"}, data["chart"].(map[string]any)["labels"])
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	op := s.token(t, model.UserRoleOperator)
	rec := s.do(t, http.MethodPost, "/api/v1/faults/parse", op, gin.H{"raw_text": rawReport})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/export?start_date=2025-10-29&end_date=2025-10-29", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment;filename=agv_faults_20251030.csv", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(rec.Body.String(), "\ufeff")), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,发现人员,故障时间"))

	rec = s.do(t, http.MethodGet, "/api/v1/export?format=xlsx", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment;filename=agv_faults_20251030.xlsx", rec.Header().Get("Content-Disposition"))

	rec = s.do(t, http.MethodGet, "/api/v1/export?format=pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetaAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/meta", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, []any{float64(4), float64(5), float64(10)}, data["page_sizes"])
}
