package repository

import (
	"context"
	"database/sql"

	"kickoffkart/internal/models"
)

type Authorization interface {
	Create(username, email, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type ProductRepo interface {
	Insert(ctx context.Context, p models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByOwner(ctx context.Context, userID int, category string) ([]models.Product, error)
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id string) error
	CategoriesByOwner(ctx context.Context, userID int) ([]string, error)
}

type Repository struct {
	Products ProductRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Products: NewProductRepository(db),
		Auth:     NewUserRepository(db),
	}
}
