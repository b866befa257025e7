package circulation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-desk/internal/catalog"
	"library-desk/internal/platform/web"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// 1. 貸出 (reader 起点)
	// POST /readers/:reader_id/borrowings
	r.POST("/readers/:reader_id/borrowings", h.Borrow)
	// GET /readers/:reader_id/borrowings (履歴, ?open=true で貸出中のみ)
	r.GET("/readers/:reader_id/borrowings", h.ListBorrowings)

	// 2. 返却
	// POST /readers/:reader_id/returns
	r.POST("/readers/:reader_id/returns", h.Return)

	// 3. 整合性チェック(読み取りのみ)
	r.GET("/consistency", h.CheckConsistency)
}

// ---------- handlers ----------

// Borrow godoc
// @Summary  Lend a book to the reader
// @Tags     circulation
// @Param    reader_id path int true "reader id"
// @Param    body body BookRequest true "book"
// @Success  201 {object} BorrowingResponse
// @Failure  404 {object} web.ErrorResponse
// @Failure  409 {object} web.ErrorResponse
// @Router   /readers/{reader_id}/borrowings [post]
func (h *Handler) Borrow(c *gin.Context) {
	readerID, bookID, ok := bindPair(c)
	if !ok {
		return
	}
	b, err := h.svc.Borrow(c.Request.Context(), readerID, bookID)
	if err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, ToBorrowingResponse(*b))
}

// Return godoc
// @Summary  Return a book borrowed by the reader
// @Tags     circulation
// @Param    reader_id path int true "reader id"
// @Param    body body BookRequest true "book"
// @Success  200 {object} BorrowingResponse
// @Failure  409 {object} web.ErrorResponse
// @Router   /readers/{reader_id}/returns [post]
func (h *Handler) Return(c *gin.Context) {
	readerID, bookID, ok := bindPair(c)
	if !ok {
		return
	}
	b, err := h.svc.Return(c.Request.Context(), readerID, bookID)
	if err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ToBorrowingResponse(*b))
}

// GET /readers/:reader_id/borrowings
func (h *Handler) ListBorrowings(c *gin.Context) {
	id, ok := web.ParamID(c, "reader_id")
	if !ok {
		return
	}
	f := BorrowingFilter{ReaderID: catalog.ReaderID(id)}
	if v := c.Query("open"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			web.BadRequest(c, "open must be a boolean")
			return
		}
		f.OnlyOpen = b
	}

	rows, err := h.svc.ListBorrowings(c.Request.Context(), f)
	if err != nil {
		web.Error(c, err)
		return
	}
	out := make([]BorrowingResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, ToBorrowingResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

// GET /consistency
func (h *Handler) CheckConsistency(c *gin.Context) {
	ms, err := h.svc.CheckConsistency(c.Request.Context())
	if err != nil {
		web.Error(c, err)
		return
	}
	out := make([]MismatchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, MismatchResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

func bindPair(c *gin.Context) (catalog.ReaderID, catalog.BookID, bool) {
	readerID, ok := web.ParamID(c, "reader_id")
	if !ok {
		return 0, 0, false
	}
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "invalid json or missing required fields")
		return 0, 0, false
	}
	return catalog.ReaderID(readerID), catalog.BookID(req.BookID), true
}
