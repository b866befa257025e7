package circulation

import (
	"database/sql"
	"time"

	"library-desk/internal/catalog"
)

type BorrowingID int64

// Borrowing は borrowings テーブルの1行を表す。
// ReturnedAt が NULL の行が「貸出中」。
type Borrowing struct {
	ID         BorrowingID      `db:"id"`
	ReaderID   catalog.ReaderID `db:"reader_id"`
	BookID     catalog.BookID   `db:"book_id"`
	BorrowedAt time.Time        `db:"borrowed_date"`
	ReturnedAt sql.NullTime     `db:"returned_date"`
}

func (b Borrowing) Open() bool { return !b.ReturnedAt.Valid }

// 貸出履歴の検索条件
type BorrowingFilter struct {
	ReaderID catalog.ReaderID
	BookID   catalog.BookID // 0 = 全書籍
	OnlyOpen bool
}

// Mismatch is a book whose availability flag disagrees with its borrowings.
type Mismatch struct {
	BookID       catalog.BookID
	Available    bool
	OpenBorrowed int
}
