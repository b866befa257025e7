package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"library-desk/internal/platform/db"
	"library-desk/internal/schema"
)

type Store struct{ db *db.DB }

func NewStore(conn *db.DB) *Store { return &Store{db: conn} }

// InsertBook は available = true で登録し、採番された id を b に入れる
func (s *Store) InsertBook(ctx context.Context, b *Book) error {
	ds := s.db.Insert(schema.TableBooks).Rows(goqu.Record{
		"title":     b.Title,
		"author":    b.Author,
		"available": true,
	})
	id, err := s.db.InsertID(ctx, s.db, ds)
	if err != nil {
		return err
	}
	b.ID = BookID(id)
	b.Available = true
	return nil
}

func (s *Store) InsertReader(ctx context.Context, r *Reader) error {
	ds := s.db.Insert(schema.TableReaders).Rows(goqu.Record{
		"surname":    r.Surname,
		"name":       r.GivenName,
		"patronymic": r.Patronymic,
	})
	id, err := s.db.InsertID(ctx, s.db, ds)
	if err != nil {
		return err
	}
	r.ID = ReaderID(id)
	return nil
}

// ListAvailableBooks: available = true の本を id 昇順(=登録順)で返す
func (s *Store) ListAvailableBooks(ctx context.Context) ([]BookSummary, error) {
	ds := s.db.From(schema.TableBooks).
		Select("id", "title", "author").
		Where(goqu.C("available").Eq(true)).
		Order(goqu.C("id").Asc())

	out := []BookSummary{}
	if err := db.Select(ctx, s.db, &out, ds); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetBook(ctx context.Context, id BookID) (*Book, error) {
	ds := s.db.From(schema.TableBooks).
		Select("id", "title", "author", "available").
		Where(goqu.C("id").Eq(int64(id)))

	var b Book
	if err := db.Get(ctx, s.db, &b, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) GetReader(ctx context.Context, id ReaderID) (*Reader, error) {
	ds := s.db.From(schema.TableReaders).
		Select("id", "surname", "name", "patronymic").
		Where(goqu.C("id").Eq(int64(id)))

	var r Reader
	if err := db.Get(ctx, s.db, &r, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReaderNotFound
		}
		return nil, err
	}
	return &r, nil
}
