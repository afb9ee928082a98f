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

type PostRepository struct{}

func NewPostRepository() *PostRepository {
	return &PostRepository{}
}

func (r *PostRepository) Get(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, title, body, created_at, updated_at
		FROM posts
		WHERE id = ?
	`, id).Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, q database.Queryer, limit, offset int) ([]models.Post, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, title, body, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, q database.Queryer, in models.PostCreateRequest) (*models.Post, error) {
	now := time.Now().UTC()
	p := &models.Post{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Title, p.Body, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return p, nil
}

func (r *PostRepository) UpdatePartial(ctx context.Context, q database.Queryer, post *models.Post, patch models.PostPatch) error {
	if patch.UserID != nil {
		post.UserID = *patch.UserID
	}
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Body != nil {
		post.Body = *patch.Body
	}
	post.UpdatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, `
		UPDATE posts SET user_id = ?, title = ?, body = ?, updated_at = ? WHERE id = ?
	`, post.UserID, post.Title, post.Body, post.UpdatedAt, post.ID)
	return translateErr(err)
}

func (r *PostRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post: %w", models.ErrNotFound)
	}
	return nil
}
