// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

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

// PostgresRepository implements [Repository] on the books table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository bound to the shared pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	selectColumns = strings.Join(schema.Books.Columns(), ", ")
	insertColumns = strings.Join(schema.Books.InsertColumns(), ", ")
)

func scanBook(row pgx.Row) (*Book, error) {
	b := &Book{}
	err := row.Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.Genre, &b.PublishedYear,
		&b.ISBN, &b.Description, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func collectBooks(rows pgx.Rows, action string) ([]*Book, error) {
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		books = append(books, b)
	}
	return books, dberr.Wrap(rows.Err(), action)
}

// filterClause builds the WHERE clause shared by List and Count.
func filterClause(filter Filter, args *postgres.Args) string {
	var conditions []string

	if filter.Title != "" {
		conditions = append(conditions, fmt.Sprintf("%s ILIKE %s", schema.Books.Title, args.Add(postgres.ContainsPattern(filter.Title))))
	}
	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("%s = %s", schema.Books.AuthorID, args.Add(*filter.AuthorID)))
	}
	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("%s = %s", schema.Books.Genre, args.Add(string(filter.Genre))))
	}
	if filter.YearFrom != nil {
		conditions = append(conditions, fmt.Sprintf("%s >= %s", schema.Books.PublishedYear, args.Add(*filter.YearFrom)))
	}
	if filter.YearTo != nil {
		conditions = append(conditions, fmt.Sprintf("%s <= %s", schema.Books.PublishedYear, args.Add(*filter.YearTo)))
	}

	return postgres.Where(conditions)
}

// orderClause only ever interpolates whitelisted column names.
func orderClause(filter Filter) string {
	if !IsSortable(filter.SortBy) {
		return fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.Books.CreatedAt, schema.Books.ID)
	}

	direction := "ASC"
	if filter.Order == OrderDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", filter.SortBy, direction, schema.Books.ID, direction)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Book, error) {
	var args postgres.Args
	where := filterClause(filter, &args)

	query := fmt.Sprintf(`SELECT %s FROM %s%s%s LIMIT %s OFFSET %s`,
		selectColumns, schema.Books.Table, where, orderClause(filter),
		args.Add(limit), args.Add(offset),
	)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	return collectBooks(rows, "list_books")
}

func (repository *PostgresRepository) Count(context context.Context, filter Filter) (int, error) {
	var args postgres.Args
	query := fmt.Sprintf(`SELECT count(*) FROM %s%s`, schema.Books.Table, filterClause(filter, &args))

	var total int
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_books")
	}
	return total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Books.Table, schema.Books.ID)

	b, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return b, nil
}

func (repository *PostgresRepository) GetByISBN(context context.Context, isbn string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Books.Table, schema.Books.ISBN)

	b, err := scanBook(repository.db.QueryRow(context, query, isbn))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book_by_isbn")
	}
	return b, nil
}

func (repository *PostgresRepository) Create(context context.Context, b *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s
	`,
		schema.Books.Table, insertColumns,
		schema.Books.ID, schema.Books.CreatedAt, schema.Books.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		b.Title, b.AuthorID, string(b.Genre), b.PublishedYear, b.ISBN, b.Description,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return dberr.Wrap(err, "create_book")
}

// Update overwrites every mutable column; updated_at is refreshed by trigger.
func (repository *PostgresRepository) Update(context context.Context, b *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.Books.Table,
		schema.Books.Title, schema.Books.AuthorID, schema.Books.Genre,
		schema.Books.PublishedYear, schema.Books.ISBN, schema.Books.Description,
		schema.Books.ID,
		schema.Books.CreatedAt, schema.Books.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		b.ID, b.Title, b.AuthorID, string(b.Genre), b.PublishedYear, b.ISBN, b.Description,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return dberr.Wrap(err, "update_book")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Books.Table, schema.Books.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// BulkCreate inserts all books with one multi-row statement inside a
// transaction. Ids are drawn from the sequence up front so the result can be
// matched back to input order; RETURNING itself promises no order.
func (repository *PostgresRepository) BulkCreate(context context.Context, books []*Book) ([]*Book, error) {
	if len(books) == 0 {
		return []*Book{}, nil
	}

	titles := make([]string, len(books))
	authorIDs := make([]int64, len(books))
	genres := make([]string, len(books))
	years := make([]int32, len(books))
	isbns := make([]*string, len(books))
	descriptions := make([]*string, len(books))

	for i, b := range books {
		titles[i] = b.Title
		authorIDs[i] = b.AuthorID
		genres[i] = string(b.Genre)
		years[i] = int32(b.PublishedYear)
		isbns[i] = b.ISBN
		descriptions[i] = b.Description
	}

	allocate := fmt.Sprintf(`
		SELECT nextval(pg_get_serial_sequence('%s', '%s'))
		FROM generate_series(1, $1::int)
	`, schema.Books.Table, schema.Books.ID)

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT * FROM UNNEST($1::bigint[], $2::text[], $3::bigint[], $4::text[], $5::int[], $6::text[], $7::text[])
		RETURNING %s
	`, schema.Books.Table, schema.Books.ID, insertColumns, selectColumns)

	var created []*Book
	err := postgres.WithTransaction(context, repository.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(context, allocate, len(books))
		if err != nil {
			return dberr.Wrap(err, "bulk_create_books_ids")
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return dberr.Wrap(err, "bulk_create_books_ids")
		}

		rows, err = tx.Query(context, insert, ids, titles, authorIDs, genres, years, isbns, descriptions)
		if err != nil {
			return dberr.Wrap(err, "bulk_create_books")
		}

		inserted, err := collectBooks(rows, "bulk_create_books")
		if err != nil {
			return err
		}
		created, err = inInputOrder(inserted, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// inInputOrder arranges inserted rows to follow ids, the ids allocated for
// each input position.
func inInputOrder(inserted []*Book, ids []int64) ([]*Book, error) {
	byID := make(map[int64]*Book, len(inserted))
	for _, b := range inserted {
		byID[b.ID] = b
	}

	ordered := make([]*Book, len(ids))
	for i, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("bulk_create_books: row %d missing from RETURNING", id)
		}
		ordered[i] = b
	}
	return ordered, nil
}
