package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kickoffkart/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Ensure implementation of ProductRepo interface at compile time.
var _ ProductRepo = (*ProductRepository)(nil)

const (
	insertProductSQL = `INSERT INTO products (id, name, price, description, thumbnail, category, is_featured, user_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectProductByIDSQL = `SELECT id, name, price, description, thumbnail, category, is_featured, user_id
FROM products WHERE id = ?`
	selectProductsByOwnerSQL = `SELECT id, name, price, description, thumbnail, category, is_featured, user_id
FROM products WHERE user_id = ? ORDER BY is_featured DESC, name ASC`
	selectProductsByOwnerCategorySQL = `SELECT id, name, price, description, thumbnail, category, is_featured, user_id
FROM products WHERE user_id = ? AND category = ? ORDER BY is_featured DESC, name ASC`
	updateProductSQL = `UPDATE products SET name = ?, price = ?, description = ?, thumbnail = ?, category = ?, is_featured = ?
WHERE id = ?`
	deleteProductSQL     = `DELETE FROM products WHERE id = ?`
	selectCategoriesSQL  = `SELECT DISTINCT category FROM products WHERE user_id = ? ORDER BY category ASC`
)

// Insert persists a new product row. The caller assigns the ID and owner.
func (r *ProductRepository) Insert(ctx context.Context, p models.Product) error {
	_, err := r.db.ExecContext(ctx, insertProductSQL,
		p.ID, p.Name, p.Price, p.Description, p.Thumbnail, p.Category, p.IsFeatured, p.UserID)
	if err != nil {
		return fmt.Errorf("insert product %q: %w", p.ID, err)
	}
	return nil
}

// GetByID fetches a product by its ID. Returns (nil, nil) if not found.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, selectProductByIDSQL, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Thumbnail, &p.Category, &p.IsFeatured, &p.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select product %q: %w", id, err)
	}
	return &p, nil
}

// ListByOwner returns the owner's products, featured first then by name.
// An empty category means no filter.
func (r *ProductRepository) ListByOwner(ctx context.Context, userID int, category string) ([]models.Product, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if category == "" {
		rows, err = r.db.QueryContext(ctx, selectProductsByOwnerSQL, userID)
	} else {
		rows, err = r.db.QueryContext(ctx, selectProductsByOwnerCategorySQL, userID, category)
	}
	if err != nil {
		return nil, fmt.Errorf("select products for user %d: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Thumbnail, &p.Category, &p.IsFeatured, &p.UserID); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// Update rewrites the mutable columns of an existing row. The owner column
// is deliberately not part of the statement.
func (r *ProductRepository) Update(ctx context.Context, p models.Product) error {
	_, err := r.db.ExecContext(ctx, updateProductSQL,
		p.Name, p.Price, p.Description, p.Thumbnail, p.Category, p.IsFeatured, p.ID)
	if err != nil {
		return fmt.Errorf("update product %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes a product row. Deleting a missing row is not an error here;
// existence is checked at the service layer.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteProductSQL, id); err != nil {
		return fmt.Errorf("delete product %q: %w", id, err)
	}
	return nil
}

// CategoriesByOwner returns the distinct categories of the owner's products.
func (r *ProductRepository) CategoriesByOwner(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectCategoriesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select categories for user %d: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}
