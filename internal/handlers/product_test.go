package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"kickoffkart/internal/models"
	"kickoffkart/internal/service"
)

func authedRequest(method, path string, body *strings.Reader, contentType string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer tok123")
	return req
}

func validProductForm() url.Values {
	return url.Values{
		"name":        {"Ball"},
		"price":       {"100000"},
		"description": {"d"},
		"thumbnail":   {"https://x/y.png"},
		"category":    {"Soccer"},
	}
}

func TestAPIProductList_ScopedAndFiltered(t *testing.T) {
	s, products, _ := loggedInService()
	products.listResp = []models.Product{sampleProduct()}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/products/?category=Soccer", nil, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if products.lastListCategory != "Soccer" {
		t.Fatalf("category filter not forwarded, got %q", products.lastListCategory)
	}

	var m struct {
		Products []struct {
			ID        string `json:"pk"`
			DetailURL string `json:"detail_url"`
		} `json:"products"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if len(m.Products) != 1 {
		t.Fatalf("expected 1 product, got %+v", m)
	}
	p := sampleProduct()
	if m.Products[0].ID != p.ID || m.Products[0].DetailURL != "/products/"+p.ID+"/" {
		t.Fatalf("unexpected record: %+v", m.Products[0])
	}
}

func TestAPIProductDetail_ForeignRowIs404(t *testing.T) {
	s, products, _ := loggedInService()
	products.getErr = service.ErrForbidden
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/products/abc/", nil, ""))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign row, got %d", w.Code)
	}
}

func TestAPIProductCreate_Success(t *testing.T) {
	s, products, _ := loggedInService()
	products.createResp = sampleProduct()
	r := newTestRouter(s)

	body, contentType := formBody(validProductForm())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/products/create/", body, contentType))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if products.lastCreateUserID != 1 {
		t.Fatalf("expected owner 1, got %d", products.lastCreateUserID)
	}
	if len(products.createCalls) != 1 || products.createCalls[0].Price != 100000 {
		t.Fatalf("fields not forwarded: %+v", products.createCalls)
	}
}

func TestAPIProductCreate_NonIntegerPrice(t *testing.T) {
	s, products, _ := loggedInService()
	r := newTestRouter(s)

	form := validProductForm()
	form.Set("price", "not-a-number")
	body, contentType := formBody(form)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/products/create/", body, contentType))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var m struct {
		OK     bool                `json:"ok"`
		Errors map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m.OK || len(m.Errors["price"]) == 0 {
		t.Fatalf("expected price error, got %+v", m)
	}
	if len(products.createCalls) != 0 {
		t.Fatal("create must not be called on transport errors")
	}
}

func TestAPIProductCreate_ValidationErrors(t *testing.T) {
	s, products, _ := loggedInService()
	products.createErr = &service.ValidationError{
		Fields: map[string][]string{"thumbnail": {"Enter a valid URL."}},
	}
	r := newTestRouter(s)

	body, contentType := formBody(validProductForm())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/products/create/", body, contentType))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var m struct {
		Errors map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if len(m.Errors["thumbnail"]) == 0 {
		t.Fatalf("expected thumbnail error, got %+v", m)
	}
}

func TestAPIProductUpdate_NonOwnerIs403(t *testing.T) {
	s, products, _ := loggedInService()
	products.updateErr = service.ErrForbidden
	r := newTestRouter(s)

	body, contentType := formBody(validProductForm())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/products/abc/update/", body, contentType))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAPIProductDelete(t *testing.T) {
	t.Run("missing id is 404", func(t *testing.T) {
		s, products, _ := loggedInService()
		products.deleteErr = service.ErrNotFound
		r := newTestRouter(s)

		body, contentType := formBody(url.Values{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/products/abc/delete/", body, contentType))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		s, products, _ := loggedInService()
		r := newTestRouter(s)

		body, contentType := formBody(url.Values{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/products/abc/delete/", body, contentType))
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
		}
		var m map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &m)
		if m["ok"] != true || m["deleted"] != "abc" {
			t.Fatalf("unexpected body: %v", m)
		}
		if len(products.deleteCalls) != 1 || products.deleteCalls[0] != "abc" {
			t.Fatalf("delete not forwarded: %v", products.deleteCalls)
		}
	})
}

func TestProductDeletePage_GETNeverDeletes(t *testing.T) {
	s, products, _ := loggedInService()
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/products/abc/delete/", nil, ""))
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/products/abc/" {
		t.Fatalf("expected redirect back to detail, got %q", loc)
	}
	if len(products.deleteCalls) != 0 {
		t.Fatalf("GET must not trigger deletion, got calls: %v", products.deleteCalls)
	}
}

func TestShowMain_AJAXReturnsJSONList(t *testing.T) {
	s, products, _ := loggedInService()
	products.listResp = []models.Product{sampleProduct()}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/?category=Soccer", nil, "")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var m struct {
		Count    int    `json:"count"`
		Category string `json:"category"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m.Count != 1 || m.Category != "Soccer" {
		t.Fatalf("unexpected body: %+v", m)
	}
}

func TestShowMain_RendersHTMLPage(t *testing.T) {
	s, products, _ := loggedInService()
	products.listResp = []models.Product{sampleProduct()}
	products.categories = []string{"Soccer"}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/", nil, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	page := w.Body.String()
	if !strings.Contains(page, "Ball") || !strings.Contains(page, "alice") {
		t.Fatalf("expected product and username in page, got: %s", page)
	}
}

func TestProductEditPage_NonOwnerIs403(t *testing.T) {
	s, products, _ := loggedInService()
	products.getErr = service.ErrForbidden
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/products/abc/edit/", nil, ""))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestProductDetailPage_ForeignRowIs404(t *testing.T) {
	s, products, _ := loggedInService()
	products.getErr = service.ErrForbidden
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/products/abc/", nil, ""))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign detail, got %d", w.Code)
	}
}
