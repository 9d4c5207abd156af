package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
)

// UserRepository manages persistence for application users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername fetches a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT user_id, username, password, role, teacher_name, unit, is_active, created_at
        FROM users WHERE username = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT user_id, username, password, role, teacher_name, unit, is_active, created_at
        FROM users WHERE user_id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT user_id, username, password, role, teacher_name, unit, is_active, created_at
        FROM users ORDER BY user_id`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetActive toggles an account. It returns the number of affected rows.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) (int64, error) {
	const query = `UPDATE users SET is_active = $1 WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return 0, fmt.Errorf("set user active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set user active rows: %w", err)
	}
	return affected, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	const query = `UPDATE users SET password = $1 WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update password rows: %w", err)
	}
	return affected, nil
}

// InsertIgnoreDuplicate inserts a user and silently skips rows whose
// username already exists. It reports whether a row was written.
func (r *UserRepository) InsertIgnoreDuplicate(ctx context.Context, user *models.User) (bool, error) {
	const query = `INSERT INTO users (username, password, role, teacher_name, unit, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, true, $6)
        ON CONFLICT (username) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.TeacherName, user.Unit, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert user rows: %w", err)
	}
	return affected > 0, nil
}

// TeachersByUnit lists active teachers available for a unit.
func (r *UserRepository) TeachersByUnit(ctx context.Context, unit string) ([]models.User, error) {
	const query = `SELECT user_id, username, password, role, teacher_name, unit, is_active, created_at
        FROM users
        WHERE role = 'TEACHER' AND unit = $1 AND is_active = true
        ORDER BY teacher_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, unit); err != nil {
		return nil, fmt.Errorf("teachers by unit: %w", err)
	}
	return users, nil
}
