package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"kickoffkart/internal/models"
	"kickoffkart/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseName     string
	parseErr      error

	lastSignUpUsername string
	lastSignUpEmail    string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, email, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, string, error) {
	m.lastParseToken = token
	return m.parseID, m.parseName, m.parseErr
}

type mockProducts struct {
	listResp      []models.Product
	listErr       error
	createResp    models.Product
	createErr     error
	getResp       models.Product
	getErr        error
	updateResp    models.Product
	updateErr     error
	deleteErr     error
	categories    []string
	categoriesErr error

	listCalls        int
	lastListUserID   int
	lastListCategory string
	createCalls      []service.ProductFields
	lastCreateUserID int
	getCalls         []string
	updateCalls      []string
	deleteCalls      []string
}

func (m *mockProducts) List(_ context.Context, userID int, category string) ([]models.Product, error) {
	m.listCalls++
	m.lastListUserID = userID
	m.lastListCategory = category
	return m.listResp, m.listErr
}
func (m *mockProducts) Create(_ context.Context, userID int, f service.ProductFields) (models.Product, error) {
	m.createCalls = append(m.createCalls, f)
	m.lastCreateUserID = userID
	return m.createResp, m.createErr
}
func (m *mockProducts) Get(_ context.Context, id string, _ int) (models.Product, error) {
	m.getCalls = append(m.getCalls, id)
	return m.getResp, m.getErr
}
func (m *mockProducts) Update(_ context.Context, id string, _ int, _ service.ProductFields) (models.Product, error) {
	m.updateCalls = append(m.updateCalls, id)
	return m.updateResp, m.updateErr
}
func (m *mockProducts) Delete(_ context.Context, id string, _ int) error {
	m.deleteCalls = append(m.deleteCalls, id)
	return m.deleteErr
}
func (m *mockProducts) Categories(_ context.Context, _ int) ([]string, error) {
	return m.categories, m.categoriesErr
}

type mockExport struct {
	collectionResp []byte
	collectionErr  error
	oneResp        []byte
	oneErr         error

	lastCollectionFormat string
	lastOneID            string
	lastOneFormat        string
}

func (m *mockExport) Collection(_ context.Context, _ int, format string) ([]byte, error) {
	m.lastCollectionFormat = format
	return m.collectionResp, m.collectionErr
}
func (m *mockExport) One(_ context.Context, id string, _ int, format string) ([]byte, error) {
	m.lastOneID = id
	m.lastOneFormat = format
	return m.oneResp, m.oneErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// loggedInService returns a service whose ParseToken accepts any token as
// user 1 ("alice"), plus the product/export mocks for assertions.
func loggedInService() (*service.Service, *mockProducts, *mockExport) {
	products := &mockProducts{}
	export := &mockExport{}
	auth := &mockAuth{parseID: 1, parseName: "alice"}
	return &service.Service{Products: products, Export: export, Authorization: auth}, products, export
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func formBody(values url.Values) (*strings.Reader, string) {
	return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded"
}

func sampleProduct() models.Product {
	return models.Product{
		ID:          "11111111-2222-3333-4444-555555555555",
		Name:        "Ball",
		Price:       100000,
		Description: "d",
		Thumbnail:   "https://x/y.png",
		Category:    "Soccer",
		UserID:      1,
	}
}
