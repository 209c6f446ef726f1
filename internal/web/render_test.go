package web

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital_insights/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_ParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{
		"auth/login", "auth/register", "auth/profile",
		"patients/list", "patients/form", "patients/detail",
		"insights/dashboard", "insights/overview", "insights/visuals",
		"insights/activity", "insights/upload", "insights/no_data",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layout"))
}

func TestRenderer_RendersThroughGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer, err := NewRenderer()
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = renderer
	engine.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "auth/login", gin.H{
			"Title":  "Sign in",
			"Form":   struct{ Username string }{"<alice>"},
			"Errors": map[string]string{"password": "Password is required."},
			"User":   (*domain.User)(nil),
		})
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, "&lt;alice&gt;")
	assert.Contains(t, body, "Password is required.")
	assert.Contains(t, body, "Sign in | Hospital Insight Hub")
}

func TestMetricAndNumber(t *testing.T) {
	v := 25.0
	assert.Equal(t, "25.0", Metric(&v, 1))
	assert.Equal(t, "n/a", Metric(nil, 1))
	assert.Equal(t, "0.33", Number(1.0/3, 2))
	assert.Equal(t, "n/a", Number(math.NaN(), 2))
}
