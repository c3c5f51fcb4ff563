package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"todo_app/internal/common"
	"todo_app/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdatePassword(ctx context.Context, tx *sql.Tx, id int64, hashedPassword string) error
	UpdatePhoneNumber(ctx context.Context, tx *sql.Tx, id int64, phoneNumber string) error
}

type sqlUserRepository struct {
	db *sql.DB
}

func NewSQLUserRepository(db *sql.DB) UserRepository {
	return &sqlUserRepository{db: db}
}

const userColumns = `id, email, username, first_name, last_name, hashed_password, is_active, role, phone_number`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	var phone sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.HashedPassword, &user.IsActive, &user.Role, &phone,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		user.PhoneNumber = &phone.String
	}
	return user, nil
}

func (r *sqlUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, username, first_name, last_name, hashed_password, is_active, role, phone_number)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Username, user.FirstName, user.LastName,
		user.HashedPassword, user.IsActive, user.Role, user.PhoneNumber,
	).Scan(&user.ID)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("sqlUserRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlUserRepository) FindByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(conn(r.db, tx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *sqlUserRepository) UpdatePassword(ctx context.Context, tx *sql.Tx, id int64, hashedPassword string) error {
	query := `UPDATE users SET hashed_password = $1 WHERE id = $2`
	return r.updateOne(ctx, tx, "UpdatePassword", query, hashedPassword, id)
}

func (r *sqlUserRepository) UpdatePhoneNumber(ctx context.Context, tx *sql.Tx, id int64, phoneNumber string) error {
	query := `UPDATE users SET phone_number = $1 WHERE id = $2`
	return r.updateOne(ctx, tx, "UpdatePhoneNumber", query, phoneNumber, id)
}

func (r *sqlUserRepository) updateOne(ctx context.Context, tx *sql.Tx, op, query string, args ...interface{}) error {
	res, err := conn(r.db, tx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlUserRepository.%s: %w", op, err)
	}
	return expectOneRow(res, "sqlUserRepository."+op)
}

// expectOneRow turns a zero-row UPDATE/DELETE into common.ErrNotFound.
func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
