package router

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"starlink_crm_backend/internal/handlers"
	"starlink_crm_backend/internal/services"
	"starlink_crm_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes(t *testing.T) {
	svc := services.NewClientService(testutil.NewMemoryClientRepository(), nil, 0, nil)
	r := testutil.SetupRouter()
	RegisterRoutes(r, handlers.NewClientHandler(svc), handlers.NewReminderHandler(svc))

	w := testutil.DoRequest(r, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", testutil.ParseResponse(t, w)["message"])

	w = testutil.DoRequest(r, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(r, http.MethodGet, "/api/reminders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupFrontendRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "main.js"), []byte("console.log(1)"), 0o644))

	r := testutil.SetupRouter()
	SetupFrontendRoutes(r, dir)

	w := testutil.DoRequest(r, http.MethodGet, "/static/main.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = testutil.DoRequest(r, http.MethodGet, "/clients/edit/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = testutil.DoRequest(r, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", testutil.ParseResponse(t, w)["error"])
}
