package catalog

import "library-desk/internal/platform/apperr"

const (
	ReasonBookNotFound   = "BOOK_NOT_FOUND"
	ReasonReaderNotFound = "READER_NOT_FOUND"
)

var (
	ErrBookNotFound   = apperr.NotFound(ReasonBookNotFound, "book not found")
	ErrReaderNotFound = apperr.NotFound(ReasonReaderNotFound, "reader not found")
)
