package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

func newTestApp(t *testing.T, api http.HandlerFunc) (*app, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	out := &bytes.Buffer{}
	dir := t.TempDir()
	return &app{
		out:          out,
		backendURL:   srv.URL + "/api/",
		storePath:    filepath.Join(dir, "session.json"),
		downloadDir:  dir,
		readPassword: func() (string, error) { return "pw", nil },
		log:          zerolog.Nop(),
	}, out
}

func studentAPI(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/token/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access":"tok1","refresh":"ref1","role":"student","username":"ana","user_id":3}`)
		case "/api/auth/logout/":
			w.WriteHeader(http.StatusResetContent)
		case "/api/bulletins/5/download-pdf-student/3/":
			if r.Header.Get("Authorization") != "Bearer tok1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = io.WriteString(w, "%PDF-1.4")
		default:
			t.Errorf("unexpected backend call %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestApp_LoginWhoamiLogout(t *testing.T) {
	a, out := newTestApp(t, studentAPI(t))
	ctx := context.Background()

	if err := a.run(ctx, []string{"login", "-username", "ana"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out.String(), "→ "+domain.RouteStudentDashboard) {
		t.Fatalf("login must print the dashboard route, got %q", out.String())
	}

	out.Reset()
	if err := a.run(ctx, []string{"whoami"}); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out.String(), "ana\t"+domain.LabelStudent+"\tstudent\tid=3") {
		t.Fatalf("unexpected whoami output %q", out.String())
	}

	if err := a.run(ctx, []string{"logout"}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := a.run(ctx, []string{"whoami"}); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected errNotLoggedIn after logout, got %v", err)
	}
}

func TestApp_TornSessionFileRecovers(t *testing.T) {
	a, out := newTestApp(t, studentAPI(t))
	ctx := context.Background()
	torn := []byte(`{"token":"tok1","user":`)
	if err := os.WriteFile(a.storePath, torn, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := a.run(ctx, []string{"whoami"}); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected errNotLoggedIn on a torn file, got %v", err)
	}

	if err := os.WriteFile(a.storePath, torn, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := a.run(ctx, []string{"logout"}); err != nil {
		t.Fatalf("logout on a torn file: %v", err)
	}
	if _, err := os.Stat(a.storePath); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected session file to be removed, got %v", err)
	}

	if err := a.run(ctx, []string{"login", "-username", "ana"}); err != nil {
		t.Fatalf("login after recovery: %v", err)
	}
	out.Reset()
	if err := a.run(ctx, []string{"whoami"}); err != nil || !strings.Contains(out.String(), "ana\t") {
		t.Fatalf("whoami after recovery: %q %v", out.String(), err)
	}
}

func TestApp_UnreadableSessionStillLogsOut(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called")
	})
	ctx := context.Background()
	// A directory in place of the file cannot be read as a session.
	if err := os.Mkdir(a.storePath, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := a.run(ctx, []string{"whoami"}); err == nil || !strings.Contains(err.Error(), "ecolectl logout") {
		t.Fatalf("expected a hint to log out, got %v", err)
	}
	if err := a.run(ctx, []string{"logout"}); err != nil {
		t.Fatalf("logout must not refuse an unreadable session: %v", err)
	}
	if !strings.Contains(out.String(), "signed out") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestApp_BulletinDefaultsToOwnStudentID(t *testing.T) {
	a, out := newTestApp(t, studentAPI(t))
	ctx := context.Background()
	if err := a.run(ctx, []string{"login", "-username", "ana"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	out.Reset()
	if err := a.run(ctx, []string{"bulletin", "-id", "5"}); err != nil {
		t.Fatalf("bulletin: %v", err)
	}
	path := strings.TrimSpace(out.String())
	if filepath.Base(path) != "Bulletin_5.pdf" {
		t.Fatalf("unexpected path %q", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil || string(raw) != "%PDF-1.4" {
		t.Fatalf("bulletin not saved: %q %v", raw, err)
	}
}

func TestApp_Usage(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called")
	})

	if err := a.run(context.Background(), []string{"frobnicate"}); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
	if !strings.Contains(out.String(), "attendance-history") {
		t.Fatalf("usage must list commands, got %q", out.String())
	}
	if err := a.run(context.Background(), []string{"login"}); !errors.Is(err, errUsage) {
		t.Fatalf("login without -username must fail with errUsage, got %v", err)
	}
}

func TestApp_InvalidStatusRejectedBeforeBackend(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called")
	})
	err := a.run(context.Background(), []string{"attendance-history", "-status", "sick"})
	if err == nil || !strings.Contains(err.Error(), "invalid status") {
		t.Fatalf("expected invalid status, got %v", err)
	}
}
