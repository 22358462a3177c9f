package api_test

import (
	"Abode/internal/api/config"
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/geo"
	"Abode/internal/pkg/security"
	"Abode/internal/pkg/testutil"
	"Abode/internal/wire"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type entityItem struct {
	ID uint64 `json:"id"`
}

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	router  http.Handler
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	cfg := &config.Config{
		Geo:      config.GeoConfig{TimeoutMS: 100},
		Recency:  config.RecencyConfig{Capacity: 10, SessionName: "abode_test", SessionSecret: "test-secret"},
		Trending: config.TrendingConfig{WindowDays: 7, DefaultLimit: 8},
		Cron:     config.CronConfig{ViewCountSpec: "0 */5 * * * *", RecencyPruneSpec: "@daily"},
	}
	app, err := wire.BuildApplication(db, cfg, wire.Options{
		Resolver:  geo.StaticResolver{Location: geo.Location{Country: "Ireland", City: "Galway"}},
		SkipKafka: true,
	})
	require.NoError(t, err)
	require.Nil(t, app.KafkaManager)

	return &testServer{t: t, db: db, router: app.Router}
}

func (s *testServer) do(method, path, token string, body []byte) envelope {
	s.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(s.t, http.StatusOK, w.Code)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		s.cookies = cookies
	}

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (s *testServer) items(env envelope) []uint64 {
	s.t.Helper()
	var items []entityItem
	require.NoError(s.t, json.Unmarshal(env.Data, &items))
	out := make([]uint64, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func token(t *testing.T, userID uint64, roles ...string) string {
	t.Helper()
	tok, err := security.GenerateToken(userID, roles)
	require.NoError(t, err)
	return tok
}

func id(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	env := s.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, 200, env.Code)
}

func TestRecordViewAnonymousThenRecentFromSession(t *testing.T) {
	s := newTestServer(t)
	p := testutil.SeedProperty(t, s.db, model.Property{IsActive: true})
	other := testutil.SeedProperty(t, s.db, model.Property{IsActive: true})

	env := s.do(http.MethodPost, "/api/views/properties/"+id(p.ID), "", nil)
	require.Equal(t, 200, env.Code)
	var res struct {
		Success bool   `json:"success"`
		EventID uint64 `json:"event_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Success)
	assert.NotZero(t, res.EventID)
	require.NotEmpty(t, s.cookies)

	s.do(http.MethodPost, "/api/views/properties/"+id(other.ID), "", nil)

	var ev model.ViewEvent
	require.NoError(t, s.db.First(&ev, res.EventID).Error)
	assert.Equal(t, "Mobile", ev.DeviceType)
	assert.Equal(t, "Galway", ev.City)
	assert.Nil(t, ev.ViewerID)

	env = s.do(http.MethodGet, "/api/properties/recent", "", nil)
	assert.Equal(t, []uint64{other.ID, p.ID}, s.items(env))

	// 会话缓存按实体类型隔离
	env = s.do(http.MethodGet, "/api/posts/recent", "", nil)
	assert.Empty(t, s.items(env))
}

func TestRecordViewNotFound(t *testing.T) {
	s := newTestServer(t)
	env := s.do(http.MethodPost, "/api/views/properties/999", "", nil)
	assert.Equal(t, 404, env.Code)

	env = s.do(http.MethodPost, "/api/views/properties/abc", "", nil)
	assert.Equal(t, 400, env.Code)

	var n int64
	s.db.Model(&model.ViewEvent{}).Count(&n)
	assert.Zero(t, n)
}

func TestRecordViewIdentifiedViewer(t *testing.T) {
	s := newTestServer(t)
	post := testutil.SeedPost(t, s.db, model.Post{Published: true, Category: "guides"})
	tok := token(t, 21)

	env := s.do(http.MethodPost, "/api/views/posts/"+id(post.ID), tok, nil)
	var res struct {
		RecencyUpdated bool `json:"recency_updated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.RecencyUpdated)

	// 丢掉 cookie 后仍可从持久化记录读到
	s.cookies = nil
	env = s.do(http.MethodGet, "/api/posts/recent", tok, nil)
	assert.Equal(t, []uint64{post.ID}, s.items(env))

	env = s.do(http.MethodGet, "/api/posts/recent", "", nil)
	assert.Empty(t, s.items(env))
}

func TestTrendingAndRecommendedEndpoints(t *testing.T) {
	s := newTestServer(t)
	now := time.Now()
	hot := testutil.SeedProperty(t, s.db, model.Property{IsActive: true, Detail: "villa", UpdatedAt: now.Add(-5 * time.Hour)})
	fresh := testutil.SeedProperty(t, s.db, model.Property{IsActive: true, Detail: "villa"})
	testutil.SeedViews(t, s.db, model.EntityProperty, hot.ID, 4, now.Add(-time.Hour))

	env := s.do(http.MethodGet, "/api/properties/trending?limit=2", "", nil)
	assert.Equal(t, []uint64{hot.ID, fresh.ID}, s.items(env))

	env = s.do(http.MethodGet, "/api/properties/trending?limit=abc", "", nil)
	assert.Equal(t, 400, env.Code)

	env = s.do(http.MethodGet, "/api/properties/"+id(hot.ID)+"/recommended", "", nil)
	assert.Equal(t, []uint64{fresh.ID}, s.items(env))

	env = s.do(http.MethodGet, "/api/properties/999/recommended", "", nil)
	assert.Equal(t, 200, env.Code)
	assert.Empty(t, s.items(env))
}

func TestResolveEndpoint(t *testing.T) {
	s := newTestServer(t)
	a := testutil.SeedProperty(t, s.db, model.Property{IsActive: true})
	b := testutil.SeedProperty(t, s.db, model.Property{IsActive: true})

	body := []byte(`{"ids":[` + id(b.ID) + `,404,` + id(a.ID) + `]}`)
	env := s.do(http.MethodPost, "/api/properties/resolve", "", body)
	assert.Equal(t, []uint64{b.ID, a.ID}, s.items(env))

	for _, bad := range []string{`{"ids":"1,2"}`, `{}`, `not json`} {
		env = s.do(http.MethodPost, "/api/properties/resolve", "", []byte(bad))
		assert.Equal(t, 400, env.Code, bad)
	}
}

func TestPropertySearchAndDetail(t *testing.T) {
	s := newTestServer(t)
	p := testutil.SeedProperty(t, s.db, model.Property{IsActive: true, Title: "Seafront cottage", County: "Clare", Price: 250000})
	testutil.SeedProperty(t, s.db, model.Property{IsActive: true, Title: "City flat", County: "Dublin", Price: 400000})

	env := s.do(http.MethodGet, "/api/properties/search?keyword=seafront&county=Clare", "", nil)
	require.Equal(t, 200, env.Code)
	var page struct {
		Items  []entityItem `json:"items"`
		Source string       `json:"source"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, consts.SourceDB, page.Source)
	require.Len(t, page.Items, 1)
	assert.Equal(t, p.ID, page.Items[0].ID)

	env = s.do(http.MethodGet, "/api/properties/search?status=unknown", "", nil)
	assert.Equal(t, 400, env.Code)

	env = s.do(http.MethodGet, "/api/properties/"+id(p.ID), "", nil)
	require.Equal(t, 200, env.Code)
	assert.True(t, strings.Contains(string(env.Data), "Seafront cottage"))

	env = s.do(http.MethodGet, "/api/properties/999", "", nil)
	assert.Equal(t, 404, env.Code)
}

func TestDeletePropertyRequiresRole(t *testing.T) {
	s := newTestServer(t)
	p := testutil.SeedProperty(t, s.db, model.Property{IsActive: true, AgentID: 5})
	testutil.SeedViews(t, s.db, model.EntityProperty, p.ID, 2, time.Now())
	path := "/api/properties/" + id(p.ID)

	assert.Equal(t, 401, s.do(http.MethodDelete, path, "", nil).Code)
	assert.Equal(t, 403, s.do(http.MethodDelete, path, token(t, 5, "USER"), nil).Code)
	assert.Equal(t, 401, s.do(http.MethodDelete, path, token(t, 6, consts.RoleAgent), nil).Code)
	assert.Equal(t, 200, s.do(http.MethodDelete, path, token(t, 5, consts.RoleAgent), nil).Code)
	assert.Equal(t, 404, s.do(http.MethodDelete, path, token(t, 1, consts.RoleAdmin), nil).Code)

	var n int64
	s.db.Model(&model.ViewEvent{}).Count(&n)
	assert.Zero(t, n)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	p := testutil.SeedProperty(t, s.db, model.Property{IsActive: true})
	s.do(http.MethodPost, "/api/views/properties/"+id(p.ID), "", nil)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abode_views_recorded_total")
}
