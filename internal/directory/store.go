package directory

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"library-desk/internal/catalog"
	"library-desk/internal/platform/db"
	"library-desk/internal/schema"
)

type Store struct{ db *db.DB }

func NewStore(conn *db.DB) *Store { return &Store{db: conn} }

// FindBySurname は完全一致で検索し id 昇順で返す。limit <= 0 で全件。
func (s *Store) FindBySurname(ctx context.Context, surname string, limit uint) ([]catalog.Reader, error) {
	ds := s.db.From(schema.TableReaders).
		Select("id", "surname", "name", "patronymic").
		Where(goqu.C("surname").Eq(surname)).
		Order(goqu.C("id").Asc())
	if limit > 0 {
		ds = ds.Limit(limit)
	}

	out := []catalog.Reader{}
	if err := db.Select(ctx, s.db, &out, ds); err != nil {
		return nil, err
	}
	return out, nil
}
