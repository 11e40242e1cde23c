package reports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cmreports/internal/components/telemetry"
	"cmreports/internal/scrapers/cargamaquina"

	"github.com/stretchr/testify/require"
)

const cmLoginPage = `<html><body><form method="post">
<input type="hidden" name="YII_CSRF_TOKEN" value="tok">
<input name="LoginForm[username]"><input name="LoginForm[password]" type="password">
</form></body></html>`

// cmServer serves a logged in session and the report fixtures of the
// cargamaquina package.
type cmServer struct {
	server *httptest.Server

	mutex  sync.Mutex
	pages  map[string]string
	status map[string]int
}

func newCMServer(t *testing.T) *cmServer {
	s := &cmServer{pages: map[string]string{}, status: map[string]int{}}
	for path, file := range map[string]string{
		"/sales":      "sales.html",
		"/production": "production.html",
		"/materials":  "materials.html",
	} {
		content, err := os.ReadFile(filepath.Join("..", "scrapers", "cargamaquina", "testdata", file))
		require.NoError(t, err)
		s.pages[path] = string(content)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		status := s.status[r.URL.Path]
		page, ok := s.pages[r.URL.Path]
		s.mutex.Unlock()

		switch {
		case status != 0:
			w.WriteHeader(status)
		case r.URL.Path == "/site/login" && r.Method == http.MethodGet:
			w.Write([]byte(cmLoginPage))
		case r.URL.Path == "/site/login":
			http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "s", Path: "/"})
			w.Write([]byte(`<html><body>Painel</body></html>`))
		case ok:
			w.Write([]byte(page))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *cmServer) setStatus(path string, status int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status[path] = status
}

func (s *cmServer) client(t *testing.T) *cargamaquina.Client {
	client, err := cargamaquina.NewClient(cargamaquina.ClientOptions{
		BaseUrl: s.server.URL,
		Endpoints: cargamaquina.Endpoints{
			SalesBacklog:      "/sales",
			ProductionBacklog: "/production",
			PendingMaterials:  "/materials",
		},
		RequestsPerSecond: 100,
		Burst:             10,
	}, telemetry.NewTestAPI())
	require.NoError(t, err)
	require.NoError(t, client.Login(context.Background(), "user", "pass"))
	return client
}

func TestConsolidatedReportFromCM(t *testing.T) {
	cm := newCMServer(t)

	out, err := ConsolidatedReport(context.Background(), cm.client(t), cargamaquina.DateRange{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "OP-1", out[0].Op)
	require.Equal(t, "Extrusão", out[0].Stage)
	require.Len(t, out[0].PendingMaterials, 2)
	require.Equal(t, "Expedição", out[1].Stage)
	require.Empty(t, out[1].PendingMaterials)
}

func TestConsolidatedReportFailsWhenCMErrors(t *testing.T) {
	for _, path := range []string{"/sales", "/production", "/materials"} {
		t.Run(path, func(t *testing.T) {
			cm := newCMServer(t)
			client := cm.client(t)
			cm.setStatus(path, http.StatusInternalServerError)

			out, err := ConsolidatedReport(context.Background(), client, cargamaquina.DateRange{})
			require.ErrorIs(t, err, cargamaquina.ErrReportUnavailable)
			require.Nil(t, out)
		})
	}
}

func TestConsolidatedReportFailsWhenCMIsDown(t *testing.T) {
	cm := newCMServer(t)
	client := cm.client(t)
	cm.server.Close()

	out, err := ConsolidatedReport(context.Background(), client, cargamaquina.DateRange{})
	require.ErrorIs(t, err, cargamaquina.ErrReportUnavailable)
	require.Nil(t, out)
}
