package circulation

import (
	"time"

	"library-desk/internal/catalog"
)

// 貸出・返却リクエスト(reader はパスで指定)
type BookRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

type BorrowingResponse struct {
	ID         BorrowingID      `json:"id"`
	ReaderID   catalog.ReaderID `json:"reader_id"`
	BookID     catalog.BookID   `json:"book_id"`
	BorrowedAt time.Time        `json:"borrowed_at"`
	ReturnedAt *time.Time       `json:"returned_at,omitempty"`
	Open       bool             `json:"open"`
}

func ToBorrowingResponse(b Borrowing) BorrowingResponse {
	resp := BorrowingResponse{
		ID:         b.ID,
		ReaderID:   b.ReaderID,
		BookID:     b.BookID,
		BorrowedAt: b.BorrowedAt,
		Open:       b.Open(),
	}
	if b.ReturnedAt.Valid {
		val := b.ReturnedAt.Time
		resp.ReturnedAt = &val
	}
	return resp
}

type MismatchResponse struct {
	BookID       catalog.BookID `json:"book_id"`
	Available    bool           `json:"available"`
	OpenBorrowed int            `json:"open_borrowings"`
}
