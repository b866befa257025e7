package circulation

import "library-desk/internal/platform/apperr"

const (
	ReasonAlreadyBorrowed = "ALREADY_BORROWED"
	ReasonNoOpenBorrowing = "NO_OPEN_BORROWING"
)

var (
	// ErrAlreadyBorrowed: 本が貸出中(同じ読者でも別の読者でも)
	ErrAlreadyBorrowed = apperr.Conflict(ReasonAlreadyBorrowed, "book is already lent to a reader")

	// ErrNoOpenBorrowing: この読者とこの本の組に未返却の貸出が無い
	ErrNoOpenBorrowing = apperr.Conflict(ReasonNoOpenBorrowing, "reader has no open borrowing for this book")
)
