package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/db"
	"library-desk/internal/platform/logging"
	"library-desk/internal/platform/textutil"
)

type Service struct {
	store *Store
	log   *slog.Logger
}

func NewService(conn *db.DB, log *slog.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{store: NewStore(conn), log: log.With("component", "catalog")}
}

// AddBook registers a book as available. Duplicate title/author pairs are allowed.
func (s *Service) AddBook(ctx context.Context, title, author string) (BookID, error) {
	b := &Book{Title: textutil.Clean(title), Author: textutil.Clean(author)}
	if b.Title == "" {
		return 0, apperr.Invalid("title is required")
	}
	if b.Author == "" {
		return 0, apperr.Invalid("author is required")
	}

	if err := s.store.InsertBook(ctx, b); err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	s.log.Info("book added", "book_id", b.ID, "title", b.Title)
	return b.ID, nil
}

// AddReader registers a reader. Patronymic may be empty; no duplicate check.
func (s *Service) AddReader(ctx context.Context, surname, givenName, patronymic string) (ReaderID, error) {
	r := &Reader{
		Surname:    textutil.Clean(surname),
		GivenName:  textutil.Clean(givenName),
		Patronymic: textutil.Clean(patronymic),
	}
	if r.Surname == "" {
		return 0, apperr.Invalid("surname is required")
	}
	if r.GivenName == "" {
		return 0, apperr.Invalid("given name is required")
	}

	if err := s.store.InsertReader(ctx, r); err != nil {
		return 0, fmt.Errorf("insert reader: %w", err)
	}
	s.log.Info("reader added", "reader_id", r.ID, "surname", r.Surname)
	return r.ID, nil
}

// ListAvailableBooks returns an empty slice, not an error, when nothing is on the shelf.
func (s *Service) ListAvailableBooks(ctx context.Context) ([]BookSummary, error) {
	books, err := s.store.ListAvailableBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	return books, nil
}

func (s *Service) GetBook(ctx context.Context, id BookID) (*Book, error) {
	if id <= 0 {
		return nil, apperr.Invalid("book id must be > 0")
	}
	return s.store.GetBook(ctx, id)
}

func (s *Service) GetReader(ctx context.Context, id ReaderID) (*Reader, error) {
	if id <= 0 {
		return nil, apperr.Invalid("reader id must be > 0")
	}
	return s.store.GetReader(ctx, id)
}
