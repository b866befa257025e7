package circulation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"library-desk/internal/catalog"
	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/db"
	"library-desk/internal/schema"
)

var borrowingColumns = []any{"id", "reader_id", "book_id", "borrowed_date", "returned_date"}

type Store struct {
	db *db.DB
}

func NewStore(conn *db.DB) *Store { return &Store{db: conn} }

// ---- Transactional Methods ----

// ExecBorrow handles the full transaction flow for lending a book.
// The availability check and the flag flip are one conditional UPDATE, so two
// writers can never both win the same book.
func (s *Store) ExecBorrow(ctx context.Context, m *Borrowing) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		// 1. 読者の存在確認
		ok, err := db.Exists(ctx, tx, s.db.From(schema.TableReaders).Where(goqu.C("id").Eq(int64(m.ReaderID))))
		if err != nil {
			return err
		}
		if !ok {
			return catalog.ErrReaderNotFound
		}

		// 2. available を true -> false に倒す(倒れなければ貸出不可)
		flipped, err := s.setAvailable(ctx, tx, m.BookID, false)
		if err != nil {
			return err
		}
		if !flipped {
			exists, err := db.Exists(ctx, tx, s.db.From(schema.TableBooks).Where(goqu.C("id").Eq(int64(m.BookID))))
			if err != nil {
				return err
			}
			if !exists {
				return catalog.ErrBookNotFound
			}
			return ErrAlreadyBorrowed
		}

		// 3. 貸出行を追加
		id, err := s.db.InsertID(ctx, tx, s.db.Insert(schema.TableBorrowings).Rows(goqu.Record{
			"reader_id":     int64(m.ReaderID),
			"book_id":       int64(m.BookID),
			"borrowed_date": s.db.TimeValue(m.BorrowedAt),
		}))
		if err != nil {
			return err
		}
		m.ID = BorrowingID(id)
		return nil
	})
}

// ExecReturn closes the open borrowing of (reader, book) and puts the book back
// on the shelf, in one transaction.
func (s *Store) ExecReturn(ctx context.Context, readerID catalog.ReaderID, bookID catalog.BookID, at time.Time) (*Borrowing, error) {
	var out Borrowing
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		// 1. 未返却の貸出を取得(存在しない本・読者もここで弾かれる)
		ds := s.db.From(schema.TableBorrowings).
			Select(borrowingColumns...).
			Where(
				goqu.C("reader_id").Eq(int64(readerID)),
				goqu.C("book_id").Eq(int64(bookID)),
				goqu.C("returned_date").IsNull(),
			).
			Order(goqu.C("id").Asc()).
			Limit(1)
		if err := db.Get(ctx, tx, &out, ds); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoOpenBorrowing
			}
			return err
		}

		// 2. 返却日時をセット。既に誰かが閉じていたら 0 行
		n, err := db.Exec(ctx, tx, s.db.Update(schema.TableBorrowings).
			Set(goqu.Record{"returned_date": s.db.TimeValue(at)}).
			Where(goqu.C("id").Eq(int64(out.ID)), goqu.C("returned_date").IsNull()))
		if err != nil {
			return err
		}
		if n != 1 {
			return ErrNoOpenBorrowing
		}
		out.ReturnedAt = sql.NullTime{Time: at, Valid: true}

		// 3. 他に未返却が残っていなければ available = true
		stillOut, err := db.Exists(ctx, tx, s.db.From(schema.TableBorrowings).Where(
			goqu.C("book_id").Eq(int64(bookID)),
			goqu.C("returned_date").IsNull(),
		))
		if err != nil {
			return err
		}
		if stillOut {
			return nil
		}
		if _, err := s.setAvailable(ctx, tx, bookID, true); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// setAvailable flips books.available to v only if it currently holds !v and
// reports whether the flip happened.
func (s *Store) setAvailable(ctx context.Context, tx db.DBTX, bookID catalog.BookID, v bool) (bool, error) {
	n, err := db.Exec(ctx, tx, s.db.Update(schema.TableBooks).
		Set(goqu.Record{"available": v}).
		Where(goqu.C("id").Eq(int64(bookID)), goqu.C("available").Eq(!v)))
	if err != nil {
		return false, err
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, apperr.Internal("books.available update touched more than one row")
	}
}

// ---- Queries ----

func (s *Store) ListBorrowings(ctx context.Context, f BorrowingFilter) ([]Borrowing, error) {
	ds := s.db.From(schema.TableBorrowings).Select(borrowingColumns...)
	if f.ReaderID > 0 {
		ds = ds.Where(goqu.C("reader_id").Eq(int64(f.ReaderID)))
	}
	if f.BookID > 0 {
		ds = ds.Where(goqu.C("book_id").Eq(int64(f.BookID)))
	}
	if f.OnlyOpen {
		ds = ds.Where(goqu.C("returned_date").IsNull())
	}
	ds = ds.Order(goqu.C("id").Asc())

	out := []Borrowing{}
	if err := db.Select(ctx, s.db, &out, ds); err != nil {
		return nil, err
	}
	return out, nil
}

type bookFlag struct {
	ID        catalog.BookID `db:"id"`
	Available bool           `db:"available"`
}

type openCount struct {
	BookID catalog.BookID `db:"book_id"`
	N      int            `db:"n"`
}

// FindMismatches compares every book's flag with its open borrowings.
func (s *Store) FindMismatches(ctx context.Context) ([]Mismatch, error) {
	var flags []bookFlag
	if err := db.Select(ctx, s.db, &flags, s.db.From(schema.TableBooks).
		Select("id", "available").
		Order(goqu.C("id").Asc())); err != nil {
		return nil, err
	}

	var counts []openCount
	if err := db.Select(ctx, s.db, &counts, s.db.From(schema.TableBorrowings).
		Select(goqu.C("book_id"), goqu.COUNT("*").As("n")).
		Where(goqu.C("returned_date").IsNull()).
		GroupBy("book_id")); err != nil {
		return nil, err
	}
	open := make(map[catalog.BookID]int, len(counts))
	for _, c := range counts {
		open[c.BookID] = c.N
	}

	out := []Mismatch{}
	for _, f := range flags {
		n := open[f.ID]
		// 正常: available かつ 0件 / 貸出中 かつ 1件
		if (f.Available && n == 0) || (!f.Available && n == 1) {
			continue
		}
		out = append(out, Mismatch{BookID: f.ID, Available: f.Available, OpenBorrowed: n})
	}
	return out, nil
}
