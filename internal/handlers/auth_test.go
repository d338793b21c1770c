package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"kickoffkart/internal/service"
)

func postForm(t *testing.T, r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := formBody(values)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	return w
}

func TestAPILogin_SuccessSetsSessionCookies(t *testing.T) {
	auth := &mockAuth{genTokenToken: "tok123"}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/api/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"pw123"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["ok"] != true || m["token"] != "tok123" {
		t.Fatalf("unexpected body: %v", m)
	}

	cookies := w.Header().Values("Set-Cookie")
	var hasSession, hasLastLogin bool
	for _, c := range cookies {
		if strings.HasPrefix(c, sessionCookieName+"=tok123") {
			hasSession = true
			if !strings.Contains(c, "HttpOnly") || !strings.Contains(c, "SameSite=Lax") {
				t.Fatalf("session cookie missing attributes: %s", c)
			}
		}
		if strings.HasPrefix(c, lastLoginCookieName+"=") {
			hasLastLogin = true
		}
	}
	if !hasSession || !hasLastLogin {
		t.Fatalf("expected session and last_login cookies, got %v", cookies)
	}
}

func TestAPILogin_InvalidCredentials(t *testing.T) {
	auth := &mockAuth{genTokenErr: service.ErrInvalidCredentials}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/api/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["ok"] != false {
		t.Fatalf("unexpected body: %v", m)
	}
}

func TestAPIRegister_SuccessAutoLogsIn(t *testing.T) {
	auth := &mockAuth{signUpID: 5, genTokenToken: "tok456"}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/api/auth/register/", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw123"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["ok"] != true || m["token"] != "tok456" {
		t.Fatalf("unexpected body: %v", m)
	}
	if auth.lastSignUpUsername != "alice" || auth.lastSignUpEmail != "a@x.com" {
		t.Fatalf("sign up not forwarded: %+v", auth)
	}
}

func TestAPIRegister_DuplicateUsername(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrDuplicateUsername}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/api/auth/register/", url.Values{
		"username": {"alice"},
		"password": {"pw123"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var m struct {
		OK     bool                `json:"ok"`
		Errors map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m.OK || len(m.Errors["username"]) == 0 {
		t.Fatalf("expected username error, got %+v", m)
	}
}

func TestAPILogout_ClearsSession(t *testing.T) {
	s, _, _ := loggedInService()
	r := newTestRouter(s)

	w := postForm(t, r, "/api/auth/logout/", url.Values{})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var cleared bool
	for _, c := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(c, sessionCookieName+"=") && strings.Contains(c, "Max-Age=0") {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected cleared session cookie, got %v", w.Header().Values("Set-Cookie"))
	}
}

func TestLoginPage_SubmitSuccessRedirects(t *testing.T) {
	auth := &mockAuth{genTokenToken: "tok123"}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/login/", url.Values{
		"username": {"alice"},
		"password": {"pw123"},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d (%s)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
}

func TestLoginPage_SubmitFailureRendersError(t *testing.T) {
	auth := &mockAuth{genTokenErr: service.ErrInvalidCredentials}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 re-render, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password.") {
		t.Fatalf("expected error message in page, got: %s", w.Body.String())
	}
}

func TestRegisterPage_DuplicateUsernameRendersError(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrDuplicateUsername}
	s := &service.Service{Authorization: auth, Products: &mockProducts{}, Export: &mockExport{}}
	r := newTestRouter(s)

	w := postForm(t, r, "/register/", url.Values{
		"username": {"alice"},
		"password": {"pw123"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 re-render, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username already taken.") {
		t.Fatalf("expected duplicate message in page, got: %s", w.Body.String())
	}
}

func TestLogout_RedirectsToLogin(t *testing.T) {
	s, _, _ := loggedInService()
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login/" {
		t.Fatalf("expected redirect to /login/, got %q", loc)
	}
}
