// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on the authors table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository bound to the shared pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.Authors.Columns(), ", ")

func scanAuthor(row pgx.Row) (*Author, error) {
	a := &Author{}
	err := row.Scan(&a.ID, &a.Name, &a.Biography, &a.BirthYear, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// filterClause builds the WHERE clause shared by List and Count.
func filterClause(filter Filter, args *postgres.Args) string {
	var conditions []string

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("%s ILIKE %s", schema.Authors.Name, args.Add(postgres.ContainsPattern(filter.Name))))
	}
	if filter.Nationality != "" {
		conditions = append(conditions, fmt.Sprintf("%s ILIKE %s", schema.Authors.Nationality, args.Add(postgres.ContainsPattern(filter.Nationality))))
	}

	return postgres.Where(conditions)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Author, error) {
	var args postgres.Args
	where := filterClause(filter, &args)

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC, %s ASC LIMIT %s OFFSET %s`,
		selectColumns, schema.Authors.Table, where,
		schema.Authors.Name, schema.Authors.ID,
		args.Add(limit), args.Add(offset),
	)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := make([]*Author, 0, limit)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, dberr.Wrap(rows.Err(), "list_authors")
}

func (repository *PostgresRepository) Count(context context.Context, filter Filter) (int, error) {
	var args postgres.Args
	query := fmt.Sprintf(`SELECT count(*) FROM %s%s`, schema.Authors.Table, filterClause(filter, &args))

	var total int
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_authors")
	}
	return total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Authors.Table, schema.Authors.ID)

	a, err := scanAuthor(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

// GetByName matches case-insensitively, mirroring the LOWER(name) unique index.
func (repository *PostgresRepository) GetByName(context context.Context, name string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`, selectColumns, schema.Authors.Table, schema.Authors.Name)

	a, err := scanAuthor(repository.db.QueryRow(context, query, strings.TrimSpace(name)))
	if err != nil {
		return nil, dberr.Wrap(err, "get_author_by_name")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s
	`,
		schema.Authors.Table, schema.Authors.Name, schema.Authors.Biography, schema.Authors.BirthYear, schema.Authors.Nationality,
		schema.Authors.ID, schema.Authors.CreatedAt, schema.Authors.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, a.Name, a.Biography, a.BirthYear, a.Nationality).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_author")
}

// Update overwrites every mutable column; updated_at is refreshed by trigger.
func (repository *PostgresRepository) Update(context context.Context, a *Author) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.Authors.Table,
		schema.Authors.Name, schema.Authors.Biography, schema.Authors.BirthYear, schema.Authors.Nationality,
		schema.Authors.ID,
		schema.Authors.CreatedAt, schema.Authors.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, a.ID, a.Name, a.Biography, a.BirthYear, a.Nationality).Scan(&a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "update_author")
}

// Delete removes the author; its books go with it through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Authors.Table, schema.Authors.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
