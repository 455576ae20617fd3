// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// Format is a catalogue interchange file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// MaxImportRows bounds a single import file.
const MaxImportRows = 1000

// exportHeader is the CSV header and the JSON key set of exported records.
var exportHeader = []string{"id", "title", "author_id", "genre", "published_year", "isbn", "description"}

// record is the interchange shape of a book: no timestamps.
type record struct {
	ID            int64   `json:"id,omitempty"`
	Title         string  `json:"title"`
	AuthorID      int64   `json:"author_id"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	ISBN          *string `json:"isbn"`
	Description   *string `json:"description"`
}

func (r record) toBook() (*Book, error) {
	genre, err := ParseGenre(r.Genre)
	if err != nil {
		return nil, err
	}
	return &Book{
		Title:         r.Title,
		AuthorID:      r.AuthorID,
		Genre:         genre,
		PublishedYear: r.PublishedYear,
		ISBN:          r.ISBN,
		Description:   r.Description,
	}, nil
}

func toRecord(b *Book) record {
	return record{
		ID:            b.ID,
		Title:         b.Title,
		AuthorID:      b.AuthorID,
		Genre:         string(b.Genre),
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
		Description:   b.Description,
	}
}

// # Import

// ImportBooks decodes a file of the given format and creates every book in
// it atomically through [Service.BulkCreateBooks].
func (service *Service) ImportBooks(context context.Context, format Format, file io.Reader) ([]*Book, error) {
	var (
		books []*Book
		err   error
	)

	switch format {
	case FormatJSON:
		books, err = DecodeJSON(file)
	case FormatCSV:
		books, err = DecodeCSV(file)
	default:
		return nil, apperr.ValidationError(fmt.Sprintf("Unsupported import format: %s", format))
	}
	if err != nil {
		return nil, err
	}

	created, err := service.BulkCreateBooks(context, books)
	if err != nil {
		return nil, err
	}

	service.logger.Info("books_imported", slog.String("format", string(format)), slog.Int("count", len(created)))
	return created, nil
}

// DecodeJSON reads a JSON array of book objects.
func DecodeJSON(r io.Reader) ([]*Book, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, apperr.ValidationError("Invalid JSON format")
	}

	if trimmed := strings.TrimSpace(string(raw)); !strings.HasPrefix(trimmed, "[") {
		return nil, apperr.ValidationError("JSON must contain an array of books")
	}

	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, apperr.ValidationError("Invalid JSON format")
	}
	if len(records) > MaxImportRows {
		return nil, tooManyRows()
	}

	books := make([]*Book, 0, len(records))
	for _, r := range records {
		b, err := r.toBook()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

// DecodeCSV reads a CSV file whose first row names the columns. Only title,
// author_id, genre and published_year are required; column order is free.
// A leading byte-order mark is honoured, so UTF-16 spreadsheet exports read
// the same as UTF-8.
func DecodeCSV(r io.Reader) ([]*Book, error) {
	reader := csv.NewReader(transform.NewReader(r, textunicode.BOMOverride(textunicode.UTF8.NewDecoder())))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []*Book{}, nil
	}
	if err != nil {
		return nil, invalidCSV(err.Error())
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "author_id", "genre", "published_year"} {
		if _, ok := columns[required]; !ok {
			return nil, invalidCSV(fmt.Sprintf("missing column %q", required))
		}
	}

	field := func(row []string, name string) string {
		if i, ok := columns[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	books := []*Book{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidCSV(err.Error())
		}
		if len(books) == MaxImportRows {
			return nil, tooManyRows()
		}

		authorID, err := strconv.ParseInt(field(row, "author_id"), 10, 64)
		if err != nil {
			return nil, invalidCSV(fmt.Sprintf("line %d: author_id must be an integer", line))
		}
		year, err := strconv.Atoi(field(row, "published_year"))
		if err != nil {
			return nil, invalidCSV(fmt.Sprintf("line %d: published_year must be an integer", line))
		}

		b, err := record{
			Title:         field(row, "title"),
			AuthorID:      authorID,
			Genre:         field(row, "genre"),
			PublishedYear: year,
			ISBN:          pointer.NilIfZero(field(row, "isbn")),
			Description:   pointer.NilIfZero(field(row, "description")),
		}.toBook()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}

	return books, nil
}

func invalidCSV(reason string) error {
	return apperr.ValidationError("Invalid CSV data: " + reason)
}

func tooManyRows() error {
	return apperr.ValidationError(fmt.Sprintf("Import file exceeds %d rows", MaxImportRows))
}

// # Export

// ExportBooks returns the whole catalogue, fetched page by page at the
// maximum page size, newest first.
func (service *Service) ExportBooks(context context.Context) ([]*Book, error) {
	params := pagination.Params{Page: 1, Size: pagination.MaxSize}

	var books []*Book
	for {
		result, err := service.ListBooks(context, Filter{}, params)
		if err != nil {
			return nil, err
		}

		books = append(books, result.Items...)
		if params.Page >= result.Pages {
			break
		}
		params.Page++
	}

	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

// EncodeJSON writes books as an indented JSON array of export records.
func EncodeJSON(w io.Writer, books []*Book) error {
	records := make([]record, len(books))
	for i, b := range books {
		records[i] = toRecord(b)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// EncodeCSV writes books as CSV with a header row. Missing optional values
// are written as empty cells.
func EncodeCSV(w io.Writer, books []*Book) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, b := range books {
		row := []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			strconv.FormatInt(b.AuthorID, 10),
			string(b.Genre),
			strconv.Itoa(b.PublishedYear),
			pointer.Val(b.ISBN),
			pointer.Val(b.Description),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
