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

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `id, first_name, second_name, username, email, hashed_password,
	role, is_active, is_superuser, is_verified, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var firstName, secondName sql.NullString
	err := row.Scan(&u.ID, &firstName, &secondName, &u.Username, &u.Email, &u.HashedPassword,
		&u.Role, &u.IsActive, &u.IsSuperuser, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if secondName.Valid {
		u.SecondName = &secondName.String
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, q database.Queryer, username string) (*models.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetWithPosts loads the user together with their posts.
func (r *UserRepository) GetWithPosts(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.User, error) {
	u, err := r.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, title, body, created_at, updated_at
		FROM posts
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		u.Posts = append(u.Posts, p)
	}
	return u, rows.Err()
}

func (r *UserRepository) List(ctx context.Context, q database.Queryer, limit, offset int) ([]models.User, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, q database.Queryer, user *models.User) error {
	now := time.Now().UTC()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, first_name, second_name, username, email, hashed_password,
			role, is_active, is_superuser, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.FirstName, user.SecondName, user.Username, user.Email, user.HashedPassword,
		user.Role, user.IsActive, user.IsSuperuser, user.IsVerified, user.CreatedAt, user.UpdatedAt)
	return translateErr(err)
}

// UpdatePartial applies the fields present in the patch, one explicit
// assignment per field. The password is expected to be pre-hashed.
func (r *UserRepository) UpdatePartial(ctx context.Context, q database.Queryer, user *models.User, patch models.UserPatch) error {
	if patch.FirstName != nil {
		user.FirstName = patch.FirstName
	}
	if patch.SecondName != nil {
		user.SecondName = patch.SecondName
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		user.HashedPassword = *patch.Password
	}
	user.UpdatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, `
		UPDATE users
		SET first_name = ?, second_name = ?, username = ?, email = ?, hashed_password = ?, updated_at = ?
		WHERE id = ?
	`, user.FirstName, user.SecondName, user.Username, user.Email, user.HashedPassword, user.UpdatedAt, user.ID)
	return translateErr(err)
}

func (r *UserRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	return nil
}
