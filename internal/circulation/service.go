package circulation

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"library-desk/internal/catalog"
	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/db"
	"library-desk/internal/platform/logging"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// IDGen は操作ID(ログ相関用)を発行する
type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	store *Store
	clock Clock
	id    IDGen
	log   *slog.Logger
}

type Option func(*Service)

func WithClock(c Clock) Option        { return func(s *Service) { s.clock = c } }
func WithIDGen(g IDGen) Option        { return func(s *Service) { s.id = g } }
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(conn *db.DB, opts ...Option) *Service {
	s := &Service{
		store: NewStore(conn),
		clock: realClock{},
		id:    ulidGen{},
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "circulation")
	return s
}

// 記録する時刻は UTC・秒単位にそろえる
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func validateIDs(readerID catalog.ReaderID, bookID catalog.BookID) error {
	if readerID <= 0 {
		return apperr.Invalid("reader id must be > 0")
	}
	if bookID <= 0 {
		return apperr.Invalid("book id must be > 0")
	}
	return nil
}

// Borrow lends the book to the reader.
//
// Fails with ErrAlreadyBorrowed when the book is out (to anyone, this reader
// included), catalog.ErrBookNotFound / catalog.ErrReaderNotFound for unknown ids.
// On any failure nothing is written.
func (s *Service) Borrow(ctx context.Context, readerID catalog.ReaderID, bookID catalog.BookID) (*Borrowing, error) {
	if err := validateIDs(readerID, bookID); err != nil {
		return nil, err
	}
	opID, err := s.id.New()
	if err != nil {
		return nil, err
	}
	log := s.log.With("op_id", opID, "reader_id", readerID, "book_id", bookID)

	b := &Borrowing{
		ReaderID:   readerID,
		BookID:     bookID,
		BorrowedAt: s.now(),
	}
	if err := s.store.ExecBorrow(ctx, b); err != nil {
		if apperr.IsDomain(err) {
			log.Info("borrow refused", "reason", apperr.From(err).Reason)
			return nil, err
		}
		log.Error("borrow failed", "error", err)
		return nil, fmt.Errorf("borrow book %d: %w", bookID, err)
	}

	log.Info("book borrowed", "borrowing_id", b.ID)
	return b, nil
}

// Return closes the reader's open borrowing of the book and makes the book
// available again. ErrNoOpenBorrowing when there is nothing to close, which
// also covers unknown reader or book ids.
func (s *Service) Return(ctx context.Context, readerID catalog.ReaderID, bookID catalog.BookID) (*Borrowing, error) {
	if err := validateIDs(readerID, bookID); err != nil {
		return nil, err
	}
	opID, err := s.id.New()
	if err != nil {
		return nil, err
	}
	log := s.log.With("op_id", opID, "reader_id", readerID, "book_id", bookID)

	b, err := s.store.ExecReturn(ctx, readerID, bookID, s.now())
	if err != nil {
		if apperr.IsDomain(err) {
			log.Info("return refused", "reason", apperr.From(err).Reason)
			return nil, err
		}
		log.Error("return failed", "error", err)
		return nil, fmt.Errorf("return book %d: %w", bookID, err)
	}

	normalize(b)
	log.Info("book returned", "borrowing_id", b.ID)
	return b, nil
}

// ListBorrowings returns borrowing history in id order. A zero ReaderID or
// BookID in the filter means "any".
func (s *Service) ListBorrowings(ctx context.Context, f BorrowingFilter) ([]Borrowing, error) {
	if f.ReaderID < 0 || f.BookID < 0 {
		return nil, apperr.Invalid("ids must not be negative")
	}
	out, err := s.store.ListBorrowings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list borrowings: %w", err)
	}
	for i := range out {
		normalize(&out[i])
	}
	return out, nil
}

// CheckConsistency lists books whose availability flag does not match the
// presence of exactly one open borrowing. It never modifies data.
func (s *Service) CheckConsistency(ctx context.Context) ([]Mismatch, error) {
	out, err := s.store.FindMismatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("check consistency: %w", err)
	}
	for _, m := range out {
		s.log.Warn("availability flag mismatch",
			"book_id", m.BookID, "available", m.Available, "open_borrowings", m.OpenBorrowed)
	}
	return out, nil
}

// ドライバごとに返るタイムゾーンが違うので UTC にそろえる
func normalize(b *Borrowing) {
	b.BorrowedAt = b.BorrowedAt.UTC()
	if b.ReturnedAt.Valid {
		b.ReturnedAt.Time = b.ReturnedAt.Time.UTC()
	}
}
