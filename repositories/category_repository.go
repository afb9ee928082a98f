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

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) Get(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE id = ?
	`, id).Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, q database.Queryer, name string) (*models.Category, error) {
	var cat models.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE name = ?
	`, name).Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) List(ctx context.Context, q database.Queryer, limit, offset int) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, q database.Queryer, name string) (*models.Category, error) {
	now := time.Now().UTC()
	cat := &models.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, cat.ID, cat.Name, cat.CreatedAt, cat.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return cat, nil
}

func (r *CategoryRepository) Update(ctx context.Context, q database.Queryer, id uuid.UUID, name string) error {
	res, err := q.ExecContext(ctx, `
		UPDATE categories SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now().UTC(), id)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category: %w", models.ErrNotFound)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category: %w", models.ErrNotFound)
	}
	return nil
}
