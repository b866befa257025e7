package catalog

import "strings"

type (
	BookID   int64
	ReaderID int64
)

// Book は books テーブルの1行を表す
type Book struct {
	ID        BookID `db:"id"`
	Title     string `db:"title"`
	Author    string `db:"author"`
	Available bool   `db:"available"`
}

// BookSummary is a row of the available-books listing.
type BookSummary struct {
	ID     BookID `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
}

// Reader は readers テーブルの1行を表す。作成後は変更しない。
type Reader struct {
	ID         ReaderID `db:"id"`
	Surname    string   `db:"surname"`
	GivenName  string   `db:"name"`
	Patronymic string   `db:"patronymic"`
}

func (r Reader) FullName() string {
	parts := []string{r.Surname, r.GivenName}
	if r.Patronymic != "" {
		parts = append(parts, r.Patronymic)
	}
	return strings.Join(parts, " ")
}
