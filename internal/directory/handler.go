package directory

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

	// GET /readers?surname=... (&first=true で先頭1件のみ)
	r.GET("/readers", h.FindReaders)
}

// FindReaders godoc
// @Summary  Look readers up by exact surname
// @Tags     readers
// @Param    surname query string true  "surname"
// @Param    first   query bool   false "only the first registered match"
// @Success  200 {array}  catalog.ReaderResponse
// @Failure  404 {object} web.ErrorResponse
// @Router   /readers [get]
func (h *Handler) FindReaders(c *gin.Context) {
	surname := c.Query("surname")
	first := false
	if v := c.Query("first"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			web.BadRequest(c, "first must be a boolean")
			return
		}
		first = b
	}

	if first {
		r, err := h.svc.FindReader(c.Request.Context(), surname)
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, catalog.ToReaderResponse(*r))
		return
	}

	rs, err := h.svc.FindReaders(c.Request.Context(), surname)
	if err != nil {
		web.Error(c, err)
		return
	}
	out := make([]catalog.ReaderResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, catalog.ToReaderResponse(r))
	}
	c.JSON(http.StatusOK, out)
}
