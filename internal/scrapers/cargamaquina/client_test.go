package cargamaquina

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"cmreports/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	cm := newFakeCM(t)
	client := cm.client(telemetry.NewTestAPI())
	require.Empty(t, client.CSRFToken())

	err := client.Login(context.Background(), fakeUsername, fakePassword)
	require.NoError(t, err)
	require.Equal(t, fakeToken, client.CSRFToken())

	form := cm.lastForm("/site/login")
	require.Equal(t, "3.1~13,3^17,7", form.Get("LoginForm[codigoConexao]"))
	require.Equal(t, "Entrar", form.Get("yt0"))
	require.Equal(t, "3.1~13,3^17,7", cm.lastRequest("/site/login").URL.Query().Get("c"))
	require.Equal(t, userAgent, cm.lastRequest("/site/login").UserAgent())
}

func TestLoginRejected(t *testing.T) {
	cm := newFakeCM(t)
	tel := telemetry.NewTestAPI()
	client := cm.client(tel)

	err := client.Login(context.Background(), fakeUsername, "errada")
	require.ErrorIs(t, err, ErrLoginFailed)
	require.Empty(t, client.CSRFToken())
	require.NotEmpty(t, tel.Reports("warning", report_client_login))
}

func TestLoginServerError(t *testing.T) {
	cm := newFakeCM(t)
	cm.setStatus("/site/login", http.StatusBadGateway)
	tel := telemetry.NewTestAPI()
	client := cm.client(tel)

	err := client.Login(context.Background(), fakeUsername, fakePassword)
	require.ErrorIs(t, err, ErrLoginFailed)
	require.NotEmpty(t, tel.Reports("broken", report_client_login))
}

func TestLoginMissingToken(t *testing.T) {
	cm := newFakeCM(t)
	cm.setStatus("/site/login", http.StatusNoContent)

	err := cm.client(telemetry.NewTestAPI()).Login(context.Background(), fakeUsername, fakePassword)
	require.ErrorIs(t, err, ErrLoginFailed)
}

func TestNewClientRequiresEndpoints(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseUrl: "http://localhost"}, telemetry.NewTestAPI())
	require.Error(t, err)
}

func TestClientOptionsDefaults(t *testing.T) {
	opts := ClientOptions{}.withDefaults()
	require.Equal(t, "/site/login", opts.LoginPath)
	require.Equal(t, 4.0, opts.RequestsPerSecond)
	require.Equal(t, 3, opts.Burst)
}

func TestClientDumpDir(t *testing.T) {
	cm := newFakeCM(t)
	opts := cm.options()
	opts.DumpDir = filepath.Join(t.TempDir(), "exchanges")
	client, err := NewClient(opts, telemetry.NewTestAPI())
	require.NoError(t, err)

	err = client.Login(context.Background(), fakeUsername, fakePassword)
	require.NoError(t, err)

	entries, err := os.ReadDir(opts.DumpDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "0001-get-login.txt", entries[0].Name())
	require.Equal(t, "0002-post-login.txt", entries[1].Name())
}
