package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hospital_insights/internal/config"
	"hospital_insights/internal/db"
	"hospital_insights/internal/domain"
	"hospital_insights/internal/middleware"
	"hospital_insights/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type testServer struct {
	t      *testing.T
	router *gin.Engine
	cfg    *config.Config
	mr     *miniredis.Miniredis
	rdb    *redis.Client
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SecretKey:      "test-secret",
		SessionTTL:     time.Hour,
		StrokeDataPath: filepath.Join(dir, "dataset", "stroke_data.csv"),
		ChartsDir:      filepath.Join(dir, "charts"),
		ActivityLimit:  50,
		CORSOrigins:    "http://localhost:8080",
		MaxUploadBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gdb, err := db.Open("sqlite://file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	router, err := NewRouter(cfg, gdb, rdb)
	require.NoError(t, err)
	return &testServer{t: t, router: router, cfg: cfg, mr: mr, rdb: rdb}
}

// patients reads the document store directly
func (s *testServer) patients() []domain.Patient {
	s.t.Helper()
	list, err := store.NewPatientStore(s.rdb).List(context.Background(), "")
	require.NoError(s.t, err)
	return list
}

// browser keeps cookies between requests like a real client
type browser struct {
	srv     *testServer
	cookies map[string]*http.Cookie
}

func (s *testServer) browser() *browser {
	return &browser{srv: s, cookies: map[string]*http.Cookie{}}
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.srv.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) upload(path, filename, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("dataset", filename)
	require.NoError(b.srv.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(b.srv.t, err)
	require.NoError(b.srv.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.send(req)
}

func (b *browser) hasSession() bool {
	_, ok := b.cookies[middleware.SessionCookie]
	return ok
}

func (b *browser) register(username, password string) *httptest.ResponseRecorder {
	return b.post("/auth/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	return b.post("/auth/login", url.Values{"username": {username}, "password": {password}})
}

// signedIn registers and logs in a fresh user
func (s *testServer) signedIn(username string) *browser {
	s.t.Helper()
	b := s.browser()
	require.Equal(s.t, http.StatusFound, b.register(username, "secret1").Code)
	require.Equal(s.t, http.StatusFound, b.login(username, "secret1").Code)
	require.True(s.t, b.hasSession())
	return b
}

func patientValues(code string, age string) url.Values {
	return url.Values{
		"patient_id":        {code},
		"gender":            {"Female"},
		"age":               {age},
		"hypertension":      {"0"},
		"heart_disease":     {"1"},
		"ever_married":      {"Yes"},
		"work_type":         {"Private"},
		"residence_type":    {"Urban"},
		"avg_glucose_level": {"105.5"},
		"bmi":               {"27.3"},
		"smoking_status":    {"never smoked"},
		"stroke":            {"0"},
	}
}
