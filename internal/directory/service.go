// Package directory finds readers by surname and hands out a Session scoped
// to one reader for the follow-on list / borrow / return calls.
package directory

import (
	"context"
	"fmt"
	"log/slog"

	"library-desk/internal/catalog"
	"library-desk/internal/circulation"
	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/db"
	"library-desk/internal/platform/logging"
	"library-desk/internal/platform/textutil"
)

var ErrReaderNotFound = catalog.ErrReaderNotFound

// Catalog is the part of catalog.Service a session needs.
type Catalog interface {
	GetReader(ctx context.Context, id catalog.ReaderID) (*catalog.Reader, error)
	ListAvailableBooks(ctx context.Context) ([]catalog.BookSummary, error)
}

// Circulation is the part of circulation.Service a session needs.
type Circulation interface {
	Borrow(ctx context.Context, readerID catalog.ReaderID, bookID catalog.BookID) (*circulation.Borrowing, error)
	Return(ctx context.Context, readerID catalog.ReaderID, bookID catalog.BookID) (*circulation.Borrowing, error)
	ListBorrowings(ctx context.Context, f circulation.BorrowingFilter) ([]circulation.Borrowing, error)
}

type Service struct {
	store *Store
	books Catalog
	circ  Circulation
	log   *slog.Logger
}

func NewService(conn *db.DB, books Catalog, circ Circulation, log *slog.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		store: NewStore(conn),
		books: books,
		circ:  circ,
		log:   log.With("component", "directory"),
	}
}

// FindReader returns the reader with the given surname. When several readers
// share it, the one registered first (smallest id) wins; use FindReaders to
// see all of them.
func (s *Service) FindReader(ctx context.Context, surname string) (*catalog.Reader, error) {
	rs, err := s.find(ctx, surname, 1)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, ErrReaderNotFound
	}
	return &rs[0], nil
}

// FindReaders returns every reader with the given surname in id order.
// No match is an empty slice.
func (s *Service) FindReaders(ctx context.Context, surname string) ([]catalog.Reader, error) {
	return s.find(ctx, surname, 0)
}

func (s *Service) find(ctx context.Context, surname string, limit uint) ([]catalog.Reader, error) {
	surname = textutil.Clean(surname)
	if surname == "" {
		return nil, apperr.Invalid("surname is required")
	}
	rs, err := s.store.FindBySurname(ctx, surname, limit)
	if err != nil {
		return nil, fmt.Errorf("find readers by surname: %w", err)
	}
	s.log.Debug("reader lookup", "surname", surname, "matches", len(rs))
	return rs, nil
}

// Open starts a session for the reader with the given id.
func (s *Service) Open(ctx context.Context, id catalog.ReaderID) (*Session, error) {
	r, err := s.books.GetReader(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.session(*r), nil
}

// OpenBySurname is FindReader followed by Open.
func (s *Service) OpenBySurname(ctx context.Context, surname string) (*Session, error) {
	r, err := s.FindReader(ctx, surname)
	if err != nil {
		return nil, err
	}
	return s.session(*r), nil
}

func (s *Service) session(r catalog.Reader) *Session {
	return &Session{Reader: r, books: s.books, circ: s.circ}
}

// Session binds list / borrow / return calls to one reader.
type Session struct {
	Reader catalog.Reader

	books Catalog
	circ  Circulation
}

func (s *Session) AvailableBooks(ctx context.Context) ([]catalog.BookSummary, error) {
	return s.books.ListAvailableBooks(ctx)
}

func (s *Session) Borrow(ctx context.Context, bookID catalog.BookID) (*circulation.Borrowing, error) {
	return s.circ.Borrow(ctx, s.Reader.ID, bookID)
}

func (s *Session) Return(ctx context.Context, bookID catalog.BookID) (*circulation.Borrowing, error) {
	return s.circ.Return(ctx, s.Reader.ID, bookID)
}

// Borrowings is this reader's history; onlyOpen keeps books not yet returned.
func (s *Session) Borrowings(ctx context.Context, onlyOpen bool) ([]circulation.Borrowing, error) {
	return s.circ.ListBorrowings(ctx, circulation.BorrowingFilter{ReaderID: s.Reader.ID, OnlyOpen: onlyOpen})
}
