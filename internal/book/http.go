// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// ImportRecorder observes books created through file import.
type ImportRecorder interface {
	RecordImport(format string, count int)
}

// Handler exposes the book service over HTTP.
type Handler struct {
	service  *Service
	recorder ImportRecorder
}

// NewHandler creates a book handler. recorder may be nil.
func NewHandler(service *Service, recorder ImportRecorder) *Handler {
	return &Handler{service: service, recorder: recorder}
}

// bookInput is the request body for create, update and each bulk entry.
type bookInput struct {
	Title         string  `json:"title"`
	AuthorID      int64   `json:"author_id"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	ISBN          *string `json:"isbn"`
	Description   *string `json:"description"`
}

func (input bookInput) toBook() (*Book, error) {
	genre, err := ParseGenre(input.Genre)
	if err != nil {
		return nil, err
	}
	return &Book{
		Title:         input.Title,
		AuthorID:      input.AuthorID,
		Genre:         genre,
		PublishedYear: input.PublishedYear,
		ISBN:          input.ISBN,
		Description:   input.Description,
	}, nil
}

type bulkInput struct {
	Books []bookInput `json:"books"`
}

// RegisterRoutes mounts the book CRUD endpoints, relative to /books.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	// Authenticated writes
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.createBook)
		authed.Post("/bulk", handler.bulkCreateBooks)
		authed.Put("/{id}", handler.updateBook)
		authed.Delete("/{id}", handler.deleteBook)
	})
}

// RegisterTransferRoutes mounts the import and export endpoints, relative to
// /import-export.
func (handler *Handler) RegisterTransferRoutes(router chi.Router) {
	router.Get("/export/json", handler.exportBooks(FormatJSON))
	router.Get("/export/csv", handler.exportBooks(FormatCSV))

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/import/json", handler.importBooks(FormatJSON))
		authed.Post("/import/csv", handler.importBooks(FormatCSV))
	})
}

// # CRUD

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	params, err := requestutil.Pagination(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ListBooks(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, result.Meta())
}

// parseFilter reads the list filters from the query string.
func parseFilter(request *http.Request) (Filter, error) {
	query := request.URL.Query()
	filter := Filter{
		Title:  query.Get("title"),
		Genre:  Genre(query.Get("genre")),
		SortBy: query.Get("sort_by"),
		Order:  query.Get("order"),
	}

	if raw := query.Get("author_id"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Filter{}, validate.FieldError(FieldAuthorID, "author_id must be an integer")
		}
		filter.AuthorID = &authorID
	}

	var err error
	if filter.YearFrom, err = requestutil.OptionalInt(request, "year_from"); err != nil {
		return Filter{}, err
	}
	if filter.YearTo, err = requestutil.OptionalInt(request, "year_to"); err != nil {
		return Filter{}, err
	}

	return filter, nil
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	book, err := decodeBook(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateBook(request.Context(), book)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := decodeBook(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateBook(request.Context(), bookID, book)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) bulkCreateBooks(writer http.ResponseWriter, request *http.Request) {
	var input bulkInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	books := make([]*Book, 0, len(input.Books))
	for index, entry := range input.Books {
		book, err := entry.toBook()
		if err != nil {
			respond.Error(writer, request, atIndex(index, err))
			return
		}
		books = append(books, book)
	}

	created, err := handler.service.BulkCreateBooks(request.Context(), books)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func decodeBook(writer http.ResponseWriter, request *http.Request) (*Book, error) {
	var input bookInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		return nil, err
	}
	return input.toBook()
}

// # Import / Export

func (handler *Handler) importBooks(format Format) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)

		file, header, err := request.FormFile("file")
		if err != nil {
			respond.Error(writer, request, validate.FieldError("file", "A file upload is required"))
			return
		}
		defer file.Close()

		if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != "."+string(format) {
			respond.Error(writer, request, apperr.ValidationError("File must be a "+strings.ToUpper(string(format))+" file"))
			return
		}

		created, err := handler.service.ImportBooks(request.Context(), format, file)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if handler.recorder != nil {
			handler.recorder.RecordImport(string(format), len(created))
		}

		respond.Created(writer, created)
	}
}

func (handler *Handler) exportBooks(format Format) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		books, err := handler.service.ExportBooks(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var (
			body        bytes.Buffer
			contentType string
		)
		switch format {
		case FormatCSV:
			contentType = "text/csv"
			err = EncodeCSV(&body, books)
		default:
			contentType = "application/json"
			err = EncodeJSON(&body, books)
		}
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.Attachment(writer, contentType, "books_export."+string(format), body.Bytes())
	}
}
