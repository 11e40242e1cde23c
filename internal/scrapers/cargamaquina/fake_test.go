package cargamaquina

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"cmreports/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

const (
	fakeToken    = "token-123"
	fakeUsername = "operador"
	fakePassword = "segredo"
)

const loginPage = `<html><body><form method="post">
<input type="hidden" name="YII_CSRF_TOKEN" value="` + fakeToken + `">
<input name="LoginForm[username]"><input name="LoginForm[password]" type="password">
</form></body></html>`

// fakeCM serves the login flow and the three reports out of testdata. A
// non-zero status for a path replaces its page.
type fakeCM struct {
	t      *testing.T
	server *httptest.Server

	mutex    sync.Mutex
	status   map[string]int
	pages    map[string]string
	requests map[string]*http.Request
	forms    map[string]url.Values
}

func newFakeCM(t *testing.T) *fakeCM {
	f := &fakeCM{
		t:        t,
		status:   map[string]int{},
		pages:    map[string]string{},
		requests: map[string]*http.Request{},
		forms:    map[string]url.Values{},
	}
	for path, file := range map[string]string{
		"/sales":      "testdata/sales.html",
		"/production": "testdata/production.html",
		"/materials":  "testdata/materials.html",
	} {
		content, err := os.ReadFile(file)
		require.NoError(t, err)
		f.pages[path] = string(content)
	}

	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCM) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	f.mutex.Lock()
	f.requests[r.URL.Path] = r
	f.forms[r.URL.Path] = r.PostForm
	status := f.status[r.URL.Path]
	page, hasPage := f.pages[r.URL.Path]
	f.mutex.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	switch {
	case r.URL.Path == "/site/login" && r.Method == http.MethodGet:
		w.Write([]byte(loginPage))
	case r.URL.Path == "/site/login" && r.Method == http.MethodPost:
		if r.PostForm.Get("LoginForm[username]") != fakeUsername ||
			r.PostForm.Get("LoginForm[password]") != fakePassword ||
			r.PostForm.Get("YII_CSRF_TOKEN") != fakeToken {
			w.Write([]byte(loginPage))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "session", Path: "/"})
		w.Write([]byte(`<html><body><h1>Painel</h1></body></html>`))
	case hasPage:
		if _, err := r.Cookie("PHPSESSID"); err != nil {
			w.Write([]byte(loginPage))
			return
		}
		w.Write([]byte(page))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCM) setStatus(path string, status int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.status[path] = status
}

func (f *fakeCM) setPage(path, page string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.pages[path] = page
}

func (f *fakeCM) lastRequest(path string) *http.Request {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.requests[path]
}

func (f *fakeCM) lastForm(path string) url.Values {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.forms[path]
}

func (f *fakeCM) options() ClientOptions {
	return ClientOptions{
		BaseUrl: f.server.URL,
		Endpoints: Endpoints{
			SalesBacklog:      "/sales",
			ProductionBacklog: "/production",
			PendingMaterials:  "/materials",
		},
		RequestsPerSecond: 100,
		Burst:             10,
	}
}

func (f *fakeCM) client(tel telemetry.API) *Client {
	client, err := NewClient(f.options(), tel)
	require.NoError(f.t, err)
	return client
}

func (f *fakeCM) loggedIn(tel telemetry.API) *Client {
	client := f.client(tel)
	require.NoError(f.t, client.Login(context.Background(), fakeUsername, fakePassword))
	return client
}
