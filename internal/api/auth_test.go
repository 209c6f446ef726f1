package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"hospital_insights/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousRequestsRedirectToLogin(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser()

	for _, path := range []string{
		"/",
		"/patients/",
		"/patients/add",
		"/insights/dashboard",
		"/insights/overview",
		"/insights/visuals",
		"/insights/activity",
		"/insights/upload",
		"/auth/profile",
	} {
		rec := b.get(path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"), path)
	}

	rec := b.post("/patients/x/delete", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
}

func TestAuthPagesRender(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser()

	for _, path := range []string{"/auth/login", "/auth/register"} {
		rec := b.get(path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<form", path)
	}
}

func TestLogin_WrongPasswordSetsNoSession(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser()

	rec := b.register("alice", "secret1")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))

	rec = b.login("alice", "wrong")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	assert.Contains(t, rec.Body.String(), "Account created. You can now sign in.")
	assert.False(t, b.hasSession())
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, middleware.SessionCookie, c.Name)
	}

	rec = b.login("bob", "secret1")
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	assert.False(t, b.hasSession())

	rec = b.login("alice", "secret1")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, dashboardPath, rec.Header().Get("Location"))
	assert.True(t, b.hasSession())

	rec = b.get("/")
	assert.Equal(t, dashboardPath, rec.Header().Get("Location"))
}

func TestRegister_DuplicateKeepsFirstAccount(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser()

	require.Equal(t, http.StatusFound, b.register("alice", "secret1").Code)

	rec := b.register("alice", "other-pass")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")
	assert.Contains(t, rec.Body.String(), `value="alice"`)

	assert.Equal(t, http.StatusFound, b.login("alice", "secret1").Code)
	assert.True(t, b.hasSession())
}

func TestRegister_FieldErrors(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser()

	rec := b.post("/auth/register", url.Values{
		"username":         {"al"},
		"password":         {"secret1"},
		"confirm_password": {"secret2"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Must be at least 3 characters.")
	assert.Contains(t, body, "Passwords must match.")

	assert.Equal(t, http.StatusOK, b.login("al", "secret1").Code)
	assert.False(t, b.hasSession())
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	b := srv.signedIn("alice")

	rec := b.post("/auth/logout", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
	assert.False(t, b.hasSession())

	rec = b.get("/auth/login")
	assert.Contains(t, rec.Body.String(), "You have been logged out.")

	rec = b.get("/patients/")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestProfile_RenameAndChangePassword(t *testing.T) {
	srv := newTestServer(t)
	b := srv.signedIn("alice")
	require.Equal(t, http.StatusFound, srv.browser().register("bob", "secret1").Code)

	rec := b.post("/auth/profile", url.Values{"username": {"alicia"}, "current_password": {"nope"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Current password is incorrect.")

	rec = b.post("/auth/profile", url.Values{"username": {"bob"}, "current_password": {"secret1"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")

	rec = b.post("/auth/profile", url.Values{
		"username":         {"alicia"},
		"current_password": {"secret1"},
		"new_password":     {"secret2"},
		"confirm_password": {"secret2"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = b.get("/auth/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Profile updated.")
	assert.Contains(t, rec.Body.String(), `value="alicia"`)

	other := srv.browser()
	assert.Equal(t, http.StatusOK, other.login("alice", "secret1").Code)
	assert.Equal(t, http.StatusOK, other.login("alicia", "secret1").Code)
	assert.Equal(t, http.StatusFound, other.login("alicia", "secret2").Code)

	rec = b.get("/insights/activity")
	assert.Contains(t, rec.Body.String(), "UPDATE_PROFILE")
	assert.Contains(t, rec.Body.String(), "REGISTER_USER")
}

func TestRegister_OverlongPassword(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser()

	rec := b.register("bob", strings.Repeat("a", 100))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be at most 72 characters.")

	rec = b.register("bob", strings.Repeat("é", 40)) // Within the rune limit, over bcrypt's byte limit
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at most 72 bytes.")

	assert.Equal(t, http.StatusOK, b.login("bob", strings.Repeat("é", 40)).Code)
	assert.False(t, b.hasSession())
}

func TestProfile_RejectedPasswordKeepsUsername(t *testing.T) {
	srv := newTestServer(t)
	b := srv.signedIn("alice")

	long := strings.Repeat("é", 40)
	rec := b.post("/auth/profile", url.Values{
		"username":         {"alice2"},
		"current_password": {"secret1"},
		"new_password":     {long},
		"confirm_password": {long},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at most 72 bytes.")

	other := srv.browser()
	assert.Equal(t, http.StatusOK, other.login("alice2", "secret1").Code)
	assert.False(t, other.hasSession())
	assert.Equal(t, http.StatusFound, other.login("alice", "secret1").Code)

	rec = b.get("/auth/profile")
	assert.Equal(t, http.StatusOK, rec.Code, "the original session still works")
}
