package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jokeshare/src/infra/config"
	"jokeshare/src/infra/logger"
	"jokeshare/src/infra/repo"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Store:  config.StoreConfig{Driver: config.StoreMemory},
		Log:    config.LogConfig{Level: "error", Format: "plain"},
		Session: config.SessionConfig{
			CookieName: "RJ_session",
			Secret:     "test-secret",
			MaxAge:     time.Hour,
		},
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Feed: config.FeedConfig{Title: "Remix Jokes", Description: "Some funny jokes"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(testConfig(), logger.Discard(), repo.NewMemoryRepository())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// browser is a cookie-keeping client that does not follow redirects, so tests
// can assert on them.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func newBrowser(t *testing.T, ts *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: ts.URL,
		c: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(method, path string, form url.Values, accept string) (*http.Response, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.base+path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := b.c.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(data)
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(http.MethodGet, path, nil, "")
}

func (b *browser) getJSON(path string, out any) *http.Response {
	b.t.Helper()
	resp, body := b.do(http.MethodGet, path, nil, "application/json")
	if resp.StatusCode == http.StatusOK && out != nil {
		require.NoError(b.t, json.Unmarshal([]byte(body), out), body)
	}
	return resp
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	return b.do(http.MethodPost, path, form, "")
}

func (b *browser) register(username string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{
		"loginType":  {"register"},
		"username":   {username},
		"password":   {"twixrox"},
		"redirectTo": {"/jokes"},
	})
	require.Equal(b.t, http.StatusFound, resp.StatusCode)
	require.Equal(b.t, "/jokes", resp.Header.Get("Location"))
}

type jokeView struct {
	IsOwner bool `json:"isOwner"`
	Joke    struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		JokesterID string `json:"jokesterId"`
	} `json:"joke"`
}

func TestJokeLifecycle(t *testing.T) {
	ts := newTestServer(t)
	kody := newBrowser(t, ts)
	hannah := newBrowser(t, ts)
	anon := newBrowser(t, ts)

	kody.register("kody")
	hannah.register("hannah")

	// Invalid submission comes back as data.
	resp, body := kody.do(http.MethodPost, "/jokes/new", url.Values{
		"name":    {"ab"},
		"content": {"I was wondering why the frisbee kept getting bigger."},
	}, "application/json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid struct {
		FieldErrors struct {
			Name string `json:"name"`
		} `json:"fieldErrors"`
		Fields struct {
			Name string `json:"name"`
		} `json:"fields"`
		FormError *string `json:"formError"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &invalid))
	assert.Equal(t, "That joke's name is too short", invalid.FieldErrors.Name)
	assert.Equal(t, "ab", invalid.Fields.Name)
	assert.Nil(t, invalid.FormError)

	// Valid submission redirects to the new joke.
	resp, _ = kody.post("/jokes/new", url.Values{
		"name":    {"Frisbee"},
		"content": {"I was wondering why the frisbee kept getting bigger, then it hit me."},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(loc.Path, "/jokes/"))
	jokeID := strings.TrimPrefix(loc.Path, "/jokes/")
	jokePath := "/jokes/" + jokeID

	var owner jokeView
	require.Equal(t, http.StatusOK, kody.getJSON(jokePath, &owner).StatusCode)
	assert.True(t, owner.IsOwner)
	assert.Equal(t, "Frisbee", owner.Joke.Name)
	assert.Equal(t, owner.Joke.JokesterID, loc.Query().Get("userId"))

	var other jokeView
	require.Equal(t, http.StatusOK, hannah.getJSON(jokePath, &other).StatusCode)
	assert.False(t, other.IsOwner)

	var anonymous jokeView
	require.Equal(t, http.StatusOK, anon.getJSON(jokePath, &anonymous).StatusCode)
	assert.False(t, anonymous.IsOwner)

	// Only the owner sees the delete button.
	_, page := kody.get(jokePath)
	assert.Contains(t, page, `value="delete"`)
	_, page = hannah.get(jokePath)
	assert.NotContains(t, page, `value="delete"`)

	// Forged delete by someone else.
	resp, page = hannah.post(jokePath, url.Values{"intent": {"delete"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, page, "is not your joke.")

	// Anonymous delete is sent to log in.
	resp, _ = anon.post(jokePath, url.Values{"intent": {"delete"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?redirectTo="))

	// Unsupported intent.
	resp, _ = kody.post(jokePath, url.Values{"intent": {"update"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Owner delete.
	resp, _ = kody.post(jokePath, url.Values{"intent": {"delete"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/jokes", resp.Header.Get("Location"))

	assert.Equal(t, http.StatusNotFound, kody.getJSON(jokePath, nil).StatusCode)
	resp, page = kody.get(jokePath)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, page, "What the heck is "+jokeID)

	// Deleting again is not found, never forbidden.
	resp, _ = hannah.post(jokePath, url.Values{"intent": {"delete"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListing(t *testing.T) {
	ts := newTestServer(t)
	kody := newBrowser(t, ts)
	kody.register("kody")

	for _, name := range []string{"Frisbee", "Skeletons", "Road worker"} {
		resp, _ := kody.post("/jokes/new", url.Values{
			"name":    {name},
			"content": {"A perfectly adequate joke about " + name},
		})
		require.Equal(t, http.StatusFound, resp.StatusCode)
	}

	var listing struct {
		Jokes []struct {
			Name string `json:"name"`
		} `json:"jokeListItems"`
		CurrentUser *struct {
			Username string `json:"username"`
		} `json:"currentUser"`
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	require.Equal(t, http.StatusOK, kody.getJSON("/jokes", &listing).StatusCode)
	require.Len(t, listing.Jokes, 3)
	assert.Equal(t, "Road worker", listing.Jokes[0].Name)
	require.NotNil(t, listing.CurrentUser)
	assert.Equal(t, "kody", listing.CurrentUser.Username)

	require.Equal(t, http.StatusOK, kody.getJSON("/jokes?search=frsb", &listing).StatusCode)
	require.Len(t, listing.Jokes, 1)
	assert.Equal(t, "Frisbee", listing.Jokes[0].Name)

	resp, page := kody.get("/jokes?search=skel")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Hi kody")
	assert.Contains(t, page, "Skeletons")
	assert.NotContains(t, page, "Road worker")
}

func TestNewJokeRequiresLogin(t *testing.T) {
	ts := newTestServer(t)
	anon := newBrowser(t, ts)

	resp, page := anon.get("/jokes/new")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, page, "You must be logged in to create a joke.")

	resp, _ = anon.post("/jokes/new", url.Values{"name": {"Frisbee"}, "content": {"long enough content"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?redirectTo="))
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t)
	kody := newBrowser(t, ts)
	kody.register("kody")

	resp, page := kody.post("/jokes/new/preview", url.Values{
		"name":    {"Frisbee"},
		"content": {"It kept getting bigger"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "It kept getting bigger")
	assert.Contains(t, page, "disabled")

	resp, _ = kody.post("/jokes/new/preview", url.Values{"name": {"ab"}, "content": {"short"}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var listing struct {
		Jokes []any `json:"jokeListItems"`
	}
	require.Equal(t, http.StatusOK, kody.getJSON("/jokes", &listing).StatusCode)
	assert.Empty(t, listing.Jokes, "preview must not store anything")
}

func TestLoginAndLogout(t *testing.T) {
	ts := newTestServer(t)
	b := newBrowser(t, ts)
	b.register("kody")

	resp, _ := b.post("/logout", url.Values{})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = b.get("/jokes/new")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, page := b.post("/login", url.Values{
		"loginType": {"login"},
		"username":  {"kody"},
		"password":  {"wrong-password"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, page, "Username/Password combination is incorrect")

	resp, _ = b.post("/login", url.Values{
		"loginType":  {"login"},
		"username":   {"kody"},
		"password":   {"twixrox"},
		"redirectTo": {"//evil.example"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/jokes", resp.Header.Get("Location"))

	resp, _ = b.get("/jokes/new")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFeed(t *testing.T) {
	ts := newTestServer(t)
	kody := newBrowser(t, ts)
	kody.register("kody")
	resp, _ := kody.post("/jokes/new", url.Values{
		"name":    {"Frisbee"},
		"content": {"It kept getting bigger, then it hit me."},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body := kody.get("/jokes.rss")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=2419200", resp.Header.Get("Cache-Control"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "<title>Remix Jokes</title>")
	assert.Contains(t, body, "A funny joke called Frisbee")
	assert.Contains(t, body, ts.URL+"/jokes/")
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t)
	b := newBrowser(t, ts)

	resp, _ := b.get("/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/jokes", resp.Header.Get("Location"))

	var health struct {
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusOK, b.getJSON("/health/detailed", &health).StatusCode)
	assert.Equal(t, "ok", health.Status)

	resp, _ = b.get("/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
