package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krishkalaria12/imageworld/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	user := map[string]any{"id": "acc-1", "username": "ana", "email": "ana@example.com", "isPro": false}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": "tok-1"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Access token required"})
			return
		}
		writeJSON(w, http.StatusOK, user)
	})
	mux.HandleFunc("/api/images/convert", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="converted-image.png"`)
		_, _ = w.Write([]byte("converted"))
	})
	mux.HandleFunc("/api/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"totalProcessed":        2,
			"toolsUsed":             []string{"convert", "resize"},
			"totalSizeMB":           3.5,
			"averageProcessingTime": 120,
			"recentLogs":            []any{},
			"isPro":                 true,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, tokenFile string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", srv.URL, "--token-file", tokenFile}, args...))
	err := root.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 5, 4))))
	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoginMeLogout(t *testing.T) {
	srv := fakeServer(t)
	tokenFile := filepath.Join(t.TempDir(), "nested", "token")

	_, err := run(t, srv, tokenFile, "me")
	assert.ErrorIs(t, err, client.ErrNotAuthenticated)

	out, err := run(t, srv, tokenFile, "login", "--email", "ana@example.com", "--password", "hunter22")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as ana")

	info, err := os.Stat(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = run(t, srv, tokenFile, "me")
	require.NoError(t, err)
	assert.Contains(t, out, "ana <ana@example.com> plan=Free")

	_, err = run(t, srv, tokenFile, "logout")
	require.NoError(t, err)
	_, err = os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertWritesResult(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, NewTokenStore(tokenFile).Save("tok-1"))

	target := filepath.Join(dir, "result.png")
	out, err := run(t, srv, tokenFile, "convert", writePNG(t, dir), "--format", "png", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "saved "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "converted", string(data))
}

func TestConvertRejectsUnsupportedFileLocally(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, NewTokenStore(tokenFile).Save("tok-1"))

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0o644))

	_, err := run(t, srv, tokenFile, "convert", notes)
	assert.ErrorIs(t, err, client.ErrUnsupportedType)
}

func TestPNGToSVGRunsOffline(t *testing.T) {
	srv := fakeServer(t)
	srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "pic.svg")
	_, err := run(t, srv, filepath.Join(dir, "token"), "png2svg", writePNG(t, dir), "--out", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `<svg width="5" height="4"`))
}

func TestStats(t *testing.T) {
	srv := fakeServer(t)
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, NewTokenStore(tokenFile).Save("tok-1"))

	out, err := run(t, srv, tokenFile, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Pro")
	assert.Contains(t, out, "convert, resize")
	assert.Contains(t, out, "3.50 MB")
}

func TestTokenStore(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestDownloadNameCannotEscapeWorkingDir(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"acc-1","username":"ana","isPro":false}`))
	})
	mux.HandleFunc("/api/images/compress", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="../../.bashrc"`)
		_, _ = w.Write([]byte("compressed"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	root := t.TempDir()
	work := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(work, 0o755))
	tokenFile := filepath.Join(root, "token")
	require.NoError(t, NewTokenStore(tokenFile).Save("tok-1"))
	input := writePNG(t, root)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := run(t, srv, tokenFile, "compress", input)
	require.NoError(t, err)
	assert.Contains(t, out, "saved .bashrc")

	data, err := os.ReadFile(filepath.Join(work, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "compressed", string(data))

	_, err = os.Stat(filepath.Join(root, ".bashrc"))
	assert.True(t, os.IsNotExist(err))
}
