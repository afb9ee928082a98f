package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shop-service/database"
	"shop-service/models"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const productColumns = "id, name, price, description, category_id, created_at, updated_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var categoryID uuid.NullUUID
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &categoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.UUID
	}
	return &p, nil
}

func (r *ProductRepository) Get(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Product, error) {
	row := q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetMany resolves a batch of product ids. Unknown ids are silently
// omitted from the result; callers decide whether that is an error.
func (r *ProductRepository) GetMany(ctx context.Context, q database.Queryer, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id IN (`+placeholders(len(ids))+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context, q database.Queryer, limit, offset int) ([]models.Product, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, q database.Queryer, name string, price int64, description string, categoryID *uuid.UUID) (*models.Product, error) {
	now := time.Now().UTC()
	p := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		Description: description,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO products (id, name, price, description, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Price, p.Description, nullableUUID(p.CategoryID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return p, nil
}

// UpdatePartial applies each field the patch carries, one explicit
// assignment per field.
func (r *ProductRepository) UpdatePartial(ctx context.Context, q database.Queryer, product *models.Product, patch models.ProductPatch, categoryID *uuid.UUID, setCategory bool) error {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if setCategory {
		product.CategoryID = categoryID
	}
	product.UpdatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, `
		UPDATE products
		SET name = ?, price = ?, description = ?, category_id = ?, updated_at = ?
		WHERE id = ?
	`, product.Name, product.Price, product.Description, nullableUUID(product.CategoryID), product.UpdatedAt, product.ID)
	return translateErr(err)
}

func (r *ProductRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product: %w", models.ErrNotFound)
	}
	return nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
