package service

import (
	"context"
	"time"

	"kickoffkart/internal/models"
	"kickoffkart/internal/repository"
)

type Authorization interface {
	SignUp(username, email, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, string, error)
}

// Products exposes owner-scoped CRUD over catalog entries.
type Products interface {
	List(ctx context.Context, userID int, category string) ([]models.Product, error)
	Create(ctx context.Context, userID int, f ProductFields) (models.Product, error)
	Get(ctx context.Context, id string, requesterID int) (models.Product, error)
	Update(ctx context.Context, id string, requesterID int, f ProductFields) (models.Product, error)
	Delete(ctx context.Context, id string, requesterID int) error
	Categories(ctx context.Context, userID int) ([]string, error)
}

// Export renders a user's products as JSON or XML documents.
type Export interface {
	Collection(ctx context.Context, userID int, format string) ([]byte, error)
	One(ctx context.Context, id string, userID int, format string) ([]byte, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Products
	Export
	Authorization
}

// AuthConfig carries the token signing parameters loaded from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	return &Service{
		Products:      NewProductService(repos.Products),
		Export:        NewExportService(repos.Products),
		Authorization: NewAuthService(repos.Auth, auth),
	}
}
