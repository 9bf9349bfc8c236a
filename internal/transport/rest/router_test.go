package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hellosleep/internal/cache"
	"hellosleep/internal/catalog"
	"hellosleep/internal/config"
	"hellosleep/internal/model"
	"hellosleep/internal/service"
	"hellosleep/internal/transport/ws"
)

type testEnv struct {
	router   http.Handler
	auth     *service.AuthService
	patterns *cache.PatternCache
	hub      *ws.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	auth := service.NewAuthService(config.AuthConfig{AdminUsername: "ops", AdminPassword: "pw", JWTSecret: "test"})
	tags := service.NewTagService(catalog.Tags(), log)
	booklets := service.NewBookletService(catalog.Booklets(), catalog.Tags())
	questionnaire := service.NewQuestionnaireService(catalog.Questions())
	patterns := cache.NewPatternCache(cache.NewMemoryStore(), 0.9, log)
	hub := ws.NewHub(log)
	t.Cleanup(hub.Close)

	recommend := service.NewRecommendationService(patterns, nil, tags, booklets, time.Second, 5, log)
	recommend.SetBroadcaster(hub)

	router := NewRouter(&Container{
		AuthService:           auth,
		QuestionnaireService:  questionnaire,
		TagService:            tags,
		BookletService:        booklets,
		RecommendationService: recommend,
		Patterns:              patterns,
		WSHub:                 hub,
		Log:                   log,
		NearThreshold:         0.8,
		CleanupMaxAge:         time.Hour,
		CleanupMinUse:         2,
	})
	return &testEnv{router: router, auth: auth, patterns: patterns, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	resp, err := e.auth.Login("ops", "pw")
	require.NoError(t, err)
	return resp.Token
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQuestionsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/v1/questions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all struct {
		Questions []model.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all.Questions, len(catalog.Questions()))

	rec = env.do(t, "POST", "/v1/questions/visible", map[string]interface{}{
		"answers": map[string]string{catalog.QStatus: "prenatal"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var visible struct {
		Questions       []model.Question `json:"questions"`
		Progress        float64          `json:"progress"`
		MissingRequired []string         `json:"missingRequired"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &visible))
	assert.Greater(t, visible.Progress, 0.0)
	ids := make([]string, len(visible.Questions))
	for i, q := range visible.Questions {
		ids[i] = q.ID
	}
	assert.Contains(t, ids, catalog.QPregnancyWeeks)
}

func TestEvaluateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/v1/assessments/evaluate", map[string]interface{}{
		"answers": map[string]string{catalog.QSleepRegular: "no"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		CalculatedTags []string        `json:"calculatedTags"`
		Booklets       []model.Booklet `json:"booklets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{catalog.TagIrregularSchedule}, out.CalculatedTags)
	require.NotEmpty(t, out.Booklets)
	assert.Equal(t, "life_rhythm_guide", out.Booklets[0].ID)

	rec = env.do(t, "POST", "/v1/assessments/evaluate", map[string]interface{}{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("POST", "/v1/assessments/evaluate", strings.NewReader("{not json"))
	bad := httptest.NewRecorder()
	env.router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/v1/tags", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), catalog.TagMedicationDependency)

	rec = env.do(t, "GET", "/v1/booklets/life_rhythm_guide", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = env.do(t, "GET", "/v1/booklets/life_rhythm_guide?format=html", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>")

	rec = env.do(t, "GET", "/v1/booklets/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"booklet not found"}`, rec.Body.String())
}

func TestRecommendationsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/v1/recommendations", map[string]interface{}{"answers": map[string]string{}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := map[string]interface{}{
		"answers":     map[string]string{catalog.QSleepRegular: "no", catalog.QSleepMedicine: "yes"},
		"userProfile": map[string]interface{}{"age": 40},
	}
	rec = env.do(t, "POST", "/v1/recommendations", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var first model.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, model.SourceFallback, first.Source)
	assert.NotEmpty(t, first.Recommendations)
	assert.Equal(t, "fallback_"+catalog.TagMedicationDependency, first.Recommendations[0].ID)

	rec = env.do(t, "POST", "/v1/recommendations", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var second model.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, model.SourceCache, second.Source)
	assert.Equal(t, 1.0, second.Confidence)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/v1/auth/login", model.LoginRequest{Username: "ops", Password: "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, "POST", "/v1/auth/login", model.LoginRequest{Username: "ops", Password: "pw"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/v1/admin/cache/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, "GET", "/v1/admin/cache/stats", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, "GET", "/v1/admin/cache/stats", nil, env.token(t))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "memory", stats.Backend)
}

func TestAdminCacheEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	ctx := context.Background()

	base := model.AnswerSet{}
	for i, q := range catalog.Questions()[:10] {
		base[q.ID] = string(rune('a' + i))
	}
	_, err := env.patterns.Put(ctx, model.PatternEntry{Answers: base})
	require.NoError(t, err)

	// 8 of 10 pairs match: below the hit threshold, at the near threshold
	near := base.With(catalog.Questions()[0].ID, "z").With(catalog.Questions()[1].ID, "z")
	rec := env.do(t, "POST", "/v1/admin/cache/similar", map[string]interface{}{"answers": near}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var similar struct {
		Matches      []model.PatternMatch `json:"matches"`
		HitThreshold float64              `json:"hitThreshold"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &similar))
	require.Len(t, similar.Matches, 1)
	assert.InDelta(t, 0.8, similar.Matches[0].Similarity, 1e-9)
	assert.Equal(t, 0.9, similar.HitThreshold)

	rec = env.do(t, "GET", "/v1/admin/cache/entries/"+similar.Matches[0].Entry.Hash, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"content"`)

	rec = env.do(t, "GET", "/v1/admin/cache/entries/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "POST", "/v1/admin/cache/similar", map[string]interface{}{"answers": map[string]string{}}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "POST", "/v1/admin/cache/cleanup", map[string]interface{}{"maxAge": "bogus"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "POST", "/v1/admin/cache/cleanup", map[string]interface{}{"maxAge": "1h"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":0`)
	assert.Contains(t, rec.Body.String(), `"requestedBy":"`)

	rec = env.do(t, "GET", "/v1/admin/catalog/gaps", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"errors":[],"gaps":[]}`, rec.Body.String())
}

func TestPipelineWebSocket(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/pipeline"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+env.token(t), nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var hello ws.Message
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, ws.MsgHello, hello.Type)

	require.Eventually(t, func() bool { return env.hub.Connections() == 1 }, 2*time.Second, 10*time.Millisecond)

	rec := env.do(t, "POST", "/v1/recommendations", map[string]interface{}{
		"answers": map[string]string{catalog.QNoise: "yes"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var types []model.PipelineEventType
	for len(types) < 3 {
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, ws.MsgPipelineEvent, msg.Type)
		var ev model.PipelineEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		types = append(types, ev.Type)
	}
	assert.Equal(t, []model.PipelineEventType{model.EventCacheMiss, model.EventFallbackUsed, model.EventPersisted}, types)
}
