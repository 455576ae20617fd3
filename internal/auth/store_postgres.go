// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] on the users table.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a repository bound to the shared pool.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var selectColumns = strings.Join(schema.Users.Columns(), ", ")

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPassword, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts the account and fills in the generated id and timestamps.
// Duplicate emails or usernames surface as a Conflict from the unique indexes.
func (repository *PostgresUserRepository) Create(context context.Context, u *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s
	`,
		schema.Users.Table,
		schema.Users.Email, schema.Users.Username, schema.Users.HashedPassword, schema.Users.IsActive, schema.Users.IsSuperuser,
		schema.Users.ID, schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, u.Email, u.Username, u.HashedPassword, u.IsActive, u.IsSuperuser).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresUserRepository) GetByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Users.Table, schema.Users.ID)

	u, err := scanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}
	return u, nil
}

func (repository *PostgresUserRepository) GetByEmail(context context.Context, email string) (*User, error) {
	return repository.getByLowered(context, schema.Users.Email, email, "get_user_by_email")
}

func (repository *PostgresUserRepository) GetByUsername(context context.Context, username string) (*User, error) {
	return repository.getByLowered(context, schema.Users.Username, username, "get_user_by_username")
}

// getByLowered matches column case-insensitively, mirroring the LOWER() unique indexes.
func (repository *PostgresUserRepository) getByLowered(context context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`, selectColumns, schema.Users.Table, column)

	u, err := scanUser(repository.db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return u, nil
}
