package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-desk/internal/platform/web"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// books
	r.POST("/books", h.CreateBook)
	r.GET("/books/available", h.ListAvailableBooks)
	r.GET("/books/:book_id", h.GetBook)

	// readers
	r.POST("/readers", h.CreateReader)
	r.GET("/readers/:reader_id", h.GetReader)
}

// CreateBook godoc
// @Summary  Add a book (available on creation)
// @Tags     books
// @Param    body body CreateBookRequest true "book"
// @Success  201 {object} CreatedResponse
// @Router   /books [post]
func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "invalid json or missing required fields")
		return
	}
	id, err := h.svc.AddBook(c.Request.Context(), req.Title, req.Author)
	if err != nil {
		web.Error(c, err)
		return
	}
	c.Header("Location", "/books/"+strconv.FormatInt(int64(id), 10))
	c.JSON(http.StatusCreated, CreatedResponse{ID: int64(id)})
}

// ListAvailableBooks godoc
// @Summary  Books currently on the shelf, in insertion order
// @Tags     books
// @Success  200 {array} BookSummaryResponse
// @Router   /books/available [get]
func (h *Handler) ListAvailableBooks(c *gin.Context) {
	books, err := h.svc.ListAvailableBooks(c.Request.Context())
	if err != nil {
		web.Error(c, err)
		return
	}
	out := make([]BookSummaryResponse, 0, len(books))
	for _, b := range books {
		out = append(out, BookSummaryResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetBook(c *gin.Context) {
	id, ok := web.ParamID(c, "book_id")
	if !ok {
		return
	}
	b, err := h.svc.GetBook(c.Request.Context(), BookID(id))
	if err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, BookResponse(*b))
}

// CreateReader godoc
// @Summary  Register a reader
// @Tags     readers
// @Param    body body CreateReaderRequest true "reader"
// @Success  201 {object} CreatedResponse
// @Router   /readers [post]
func (h *Handler) CreateReader(c *gin.Context) {
	var req CreateReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, "invalid json or missing required fields")
		return
	}
	id, err := h.svc.AddReader(c.Request.Context(), req.Surname, req.GivenName, req.Patronymic)
	if err != nil {
		web.Error(c, err)
		return
	}
	c.Header("Location", "/readers/"+strconv.FormatInt(int64(id), 10))
	c.JSON(http.StatusCreated, CreatedResponse{ID: int64(id)})
}

func (h *Handler) GetReader(c *gin.Context) {
	id, ok := web.ParamID(c, "reader_id")
	if !ok {
		return
	}
	r, err := h.svc.GetReader(c.Request.Context(), ReaderID(id))
	if err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ToReaderResponse(*r))
}
