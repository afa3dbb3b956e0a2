package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blogr/internal/config"
	"blogr/internal/database"
	handlers "blogr/internal/handler"
	"blogr/internal/repository"
	"blogr/internal/service"
	"blogr/internal/session"
	"blogr/internal/storage"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	server   *httptest.Server
	mediaDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	static := t.TempDir()
	cfg := &config.Config{
		SecretKey: "test-secret",
		DB:        config.DB{URL: "sqlite:///:memory:"},
		Media: config.Media{
			StaticDir:     static,
			MediaDir:      filepath.Join(static, "media"),
			Backend:       "local",
			MaxPhotoSize:  64,
			MaxUploadSize: 1 << 20,
		},
		Session:     config.Session{CookieName: "session", TTL: time.Hour},
		CKEditorPkg: "full",
	}

	db, err := database.ConnectDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.CloseDB() })

	store, err := storage.New(cfg)
	require.NoError(t, err)

	services := service.NewService(repository.NewRepository(db.DB), cfg, store)
	sessions := session.NewManager(session.NewMemoryStore(), cfg.Session, cfg.SecretKey)
	h := handlers.NewHandlers(services, sessions, cfg)

	srv := httptest.NewServer(handlers.NewRouter(h))
	t.Cleanup(srv.Close)

	return &testApp{server: srv, mediaDir: cfg.Media.MediaDir}
}

// client does not follow redirects so tests can assert on them.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (a *testApp) register(t *testing.T, c *http.Client, username, email, password string) *http.Response {
	t.Helper()
	resp, _ := a.post(t, c, "/auth/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	return resp
}

func (a *testApp) login(t *testing.T, c *http.Client, email, password string) (*http.Response, string) {
	t.Helper()
	return a.post(t, c, "/auth/login", url.Values{"email": {email}, "password": {password}})
}

// signedIn registers a fresh user and returns a logged-in client.
func (a *testApp) signedIn(t *testing.T, username string) *http.Client {
	t.Helper()
	c := a.client(t)
	email := username + "@example.com"
	require.Equal(t, http.StatusSeeOther, a.register(t, c, username, email, "secret123").StatusCode)
	resp, _ := a.login(t, c, email, "secret123")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return c
}

func (a *testApp) createPost(t *testing.T, c *http.Client, slug, title string) *http.Response {
	t.Helper()
	resp, _ := a.post(t, c, "/post/create", url.Values{
		"url":     {slug},
		"title":   {title},
		"info":    {"summary of " + title},
		"content": {"<p>" + title + " body</p>"},
	})
	return resp
}

func (a *testApp) health(t *testing.T) handlers.HealthResponse {
	t.Helper()
	resp, body := a.get(t, a.client(t), "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out handlers.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := app.register(t, c, "ana", "ana@example.com", "secret123")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))

	resp, body := app.post(t, c, "/auth/register", url.Values{
		"username": {"other"},
		"email":    {"ana@example.com"},
		"password": {"different"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "User with email ana@example.com already exists.")

	assert.Equal(t, 1, app.health(t).Users)
}

func TestRegister_ValidationErrors(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.post(t, app.client(t), "/auth/register", url.Values{
		"username": {"ana"},
		"email":    {"not-an-email"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Email must be a valid email address")
	assert.Contains(t, body, "Password is required")
	assert.Equal(t, 0, app.health(t).Users)
}

func TestRegisterThenLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	require.Equal(t, http.StatusSeeOther, app.register(t, c, "ana", "ana@example.com", "secret123").StatusCode)

	_, body := app.get(t, c, "/auth/login")
	assert.Contains(t, body, "Registration successful")

	resp, _ := app.login(t, c, "ana@example.com", "secret123")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/posts", resp.Header.Get("Location"))

	resp, body = app.get(t, c, "/post/posts")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome, ana!")
	assert.Contains(t, body, `href="/auth/logout"`)
	assert.Contains(t, body, `href="/auth/profile/1"`)
}

func TestLogin_WrongCredentials(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	require.Equal(t, http.StatusSeeOther, app.register(t, c, "ana", "ana@example.com", "secret123").StatusCode)

	resp, wrongPassword := app.login(t, c, "ana@example.com", "nope")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, wrongPassword, "Incorrect email or password.")

	resp, unknownEmail := app.login(t, c, "ghost@example.com", "secret123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, unknownEmail, "Incorrect email or password.")

	resp, _ = app.get(t, c, "/post/posts")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")

	resp, _ := app.get(t, c, "/auth/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = app.get(t, c, "/post/posts")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestCreatePost_DuplicateSlug(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")

	resp := app.createPost(t, c, "hello world", "Hello World")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/posts", resp.Header.Get("Location"))

	resp, body := app.get(t, c, "/blog/hello-world")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<p>Hello World body</p>")
	assert.Contains(t, body, "by ana")

	resp, body = app.post(t, c, "/post/create", url.Values{"url": {"hello-world"}, "title": {"Again"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "A post with url hello-world already exists.")

	assert.Equal(t, 1, app.health(t).Posts)
}

func TestAnonymousCannotMutatePosts(t *testing.T) {
	app := newTestApp(t)
	author := app.signedIn(t, "ana")
	require.Equal(t, http.StatusSeeOther, app.createPost(t, author, "hello-world", "Hello World").StatusCode)

	anon := app.client(t)
	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/post/update/1"},
		{http.MethodPost, "/post/update/1"},
		{http.MethodGet, "/post/delete/1"},
		{http.MethodPost, "/post/delete/1"},
		{http.MethodGet, "/post/create"},
		{http.MethodGet, "/auth/profile/1"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var resp *http.Response
			if tc.method == http.MethodGet {
				resp, _ = app.get(t, anon, tc.path)
			} else {
				resp, _ = app.post(t, anon, tc.path, url.Values{"title": {"Hacked"}})
			}
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
		})
	}

	_, body := app.get(t, anon, "/blog/hello-world")
	assert.Contains(t, body, "Hello World")
	assert.NotContains(t, body, "Hacked")
	assert.Equal(t, 1, app.health(t).Posts)
}

func TestDeletePost_RemovesExactlyOne(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "first", "First Post").StatusCode)
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "second", "Second Post").StatusCode)

	resp, _ := app.post(t, c, "/post/delete/1", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/posts", resp.Header.Get("Location"))

	_, body := app.get(t, c, "/post/posts")
	assert.Contains(t, body, "Post deleted.")
	assert.NotContains(t, body, "First Post")
	assert.Contains(t, body, "Second Post")
	assert.Equal(t, 1, app.health(t).Posts)

	resp, _ = app.post(t, c, "/post/delete/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePost(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "hello-world", "Hello World").StatusCode)

	resp, body := app.get(t, c, "/post/update/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Hello World"`)

	resp, _ = app.post(t, c, "/post/update/1", url.Values{
		"url":     {"sneaky-new-url"},
		"title":   {"Hello Again"},
		"content": {"<p>new</p>"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body = app.get(t, c, "/blog/hello-world")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello Again")
	assert.Contains(t, body, "<p>new</p>")

	resp, _ = app.get(t, c, "/blog/sneaky-new-url")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = app.post(t, c, "/post/update/1", url.Values{"title": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Title is required")
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "hello-world", "Hello World").StatusCode)
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "goodbye", "Goodbye").StatusCode)

	anon := app.client(t)

	_, body := app.get(t, anon, "/")
	assert.Contains(t, body, "Hello World")
	assert.Contains(t, body, "Goodbye")
	assert.Contains(t, body, `class="intro"`)

	resp, body := app.post(t, anon, "/", url.Values{"search": {"hello"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello World")
	assert.NotContains(t, body, "Goodbye")
	assert.NotContains(t, body, `class="intro"`)

	_, body = app.get(t, anon, "/?search=HELLO")
	assert.Contains(t, body, "Hello World")
	assert.NotContains(t, body, "Goodbye")

	_, body = app.post(t, anon, "/", url.Values{"search": {"xyz"}})
	assert.NotContains(t, body, "Hello World")
	assert.NotContains(t, body, "Goodbye")
	assert.Contains(t, body, "No posts found.")

	_, body = app.post(t, anon, "/", url.Values{"search": {"   "}})
	assert.Contains(t, body, `class="intro"`)
	assert.Contains(t, body, "Goodbye")
}

func TestSearch_KeepsSurroundingSpaces(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "hello-world", "Hello World").StatusCode)
	require.Equal(t, http.StatusSeeOther, app.createPost(t, c, "worldwide", "Worldwide").StatusCode)

	_, body := app.post(t, app.client(t), "/", url.Values{"search": {" world"}})
	assert.Contains(t, body, "Hello World")
	assert.NotContains(t, body, "Worldwide")
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")

	for _, path := range []string{"/post/update/999", "/post/update/abc", "/post/delete/0", "/auth/profile/42", "/no/such/page"} {
		t.Run(path, func(t *testing.T) {
			resp, body := app.get(t, c, path)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Contains(t, body, "Not Found")
		})
	}

	resp, body := app.get(t, c, "/blog/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Post not found")
}

func TestProfile(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "ana")

	resp, body := app.post(t, c, "/auth/profile/1", url.Values{"username": {"ana"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Password must be at least 6 characters.")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("username", "ana renamed"))
	require.NoError(t, mw.WriteField("password", "newsecret"))
	part, err := mw.CreateFormFile("photo", "My Face.png")
	require.NoError(t, err)
	require.NoError(t, imaging.Encode(part, imaging.New(200, 100, color.Black), imaging.PNG))
	require.NoError(t, mw.Close())

	resp, err = c.Post(app.server.URL+"/auth/profile/1", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/profile/1", resp.Header.Get("Location"))

	_, body = app.get(t, c, "/auth/profile/1")
	assert.Contains(t, body, "Profile updated.")
	assert.Contains(t, body, `value="ana renamed"`)
	assert.Contains(t, body, `src="/static/media/`)

	entries, err := os.ReadDir(app.mediaDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_my-face.png"))

	resp, _ = app.get(t, c, "/static/media/"+entries[0].Name())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	other := app.client(t)
	resp, _ = app.login(t, other, "ana@example.com", "newsecret")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	h := app.health(t)
	assert.Equal(t, "ok", h.Status)

	resp, body := app.get(t, app.client(t), "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "blogr_http_requests_total")
	assert.Contains(t, body, fmt.Sprintf("route=%q", "/api/health"))
}
