package service

import (
	"context"
	"net/url"
	"strings"

	"kickoffkart/internal/models"
	"kickoffkart/internal/repository"

	"github.com/google/uuid"
)

// Field length limits for catalog entries.
const (
	maxNameLen     = 100
	maxCategoryLen = 50
)

// ProductFields is the mutable part of a product, as submitted by forms
// and the write API. The id and owner are never client-supplied.
type ProductFields struct {
	Name        string
	Price       int
	Description string
	Thumbnail   string
	Category    string
	IsFeatured  bool
}

type ProductService struct {
	products repository.ProductRepo
}

func NewProductService(products repository.ProductRepo) *ProductService {
	return &ProductService{products: products}
}

// List returns the user's products, featured first then by name. An empty
// category means no filter.
func (s *ProductService) List(ctx context.Context, userID int, category string) ([]models.Product, error) {
	return s.products.ListByOwner(ctx, userID, category)
}

// Create validates the fields, assigns a fresh identifier and persists the
// product under the given owner. Nothing is persisted on validation failure.
func (s *ProductService) Create(ctx context.Context, userID int, f ProductFields) (models.Product, error) {
	if err := validateFields(f); err != nil {
		return models.Product{}, err
	}
	p := models.Product{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		Thumbnail:   f.Thumbnail,
		Category:    f.Category,
		IsFeatured:  f.IsFeatured,
		UserID:      userID,
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Get fetches a single product. Missing ids yield ErrNotFound; rows owned by
// another user yield ErrForbidden. Read endpoints translate ErrForbidden to a
// 404 so ids cannot be probed, edit endpoints surface it as a 403.
func (s *ProductService) Get(ctx context.Context, id string, requesterID int) (models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if p == nil {
		return models.Product{}, ErrNotFound
	}
	if p.UserID != requesterID {
		return models.Product{}, ErrForbidden
	}
	return *p, nil
}

// Update validates and applies the fields to an existing product. The owner
// column never changes.
func (s *ProductService) Update(ctx context.Context, id string, requesterID int, f ProductFields) (models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if p == nil {
		return models.Product{}, ErrNotFound
	}
	if p.UserID != requesterID {
		return models.Product{}, ErrForbidden
	}
	if err := validateFields(f); err != nil {
		return models.Product{}, err
	}

	p.Name = f.Name
	p.Price = f.Price
	p.Description = f.Description
	p.Thumbnail = f.Thumbnail
	p.Category = f.Category
	p.IsFeatured = f.IsFeatured
	if err := s.products.Update(ctx, *p); err != nil {
		return models.Product{}, err
	}
	return *p, nil
}

// Delete removes a product. Missing ids yield ErrNotFound, rows owned by
// someone else ErrForbidden.
func (s *ProductService) Delete(ctx context.Context, id string, requesterID int) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	if p.UserID != requesterID {
		return ErrForbidden
	}
	return s.products.Delete(ctx, id)
}

// Categories returns the distinct categories of the user's products, for
// page navigation.
func (s *ProductService) Categories(ctx context.Context, userID int) ([]string, error) {
	return s.products.CategoriesByOwner(ctx, userID)
}

func validateFields(f ProductFields) error {
	ve := &ValidationError{}

	name := strings.TrimSpace(f.Name)
	if name == "" {
		ve.add("name", "This field is required.")
	} else if len(name) > maxNameLen {
		ve.add("name", "Ensure this value has at most 100 characters.")
	}

	if strings.TrimSpace(f.Description) == "" {
		ve.add("description", "This field is required.")
	}

	thumb := strings.TrimSpace(f.Thumbnail)
	if thumb == "" {
		ve.add("thumbnail", "This field is required.")
	} else if !isValidURL(thumb) {
		ve.add("thumbnail", "Enter a valid URL.")
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		ve.add("category", "This field is required.")
	} else if len(category) > maxCategoryLen {
		ve.add("category", "Ensure this value has at most 50 characters.")
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
