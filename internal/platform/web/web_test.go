package web_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/web"
)

func newEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(web.RequestID(), web.Logger(slog.New(slog.NewTextHandler(buf, nil))))
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := web.ParamID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	r.GET("/conflict", func(c *gin.Context) {
		web.Error(c, apperr.Conflict("TAKEN", "already taken"))
	})
	r.GET("/boom", func(c *gin.Context) {
		web.Error(c, errors.New("disk on fire"))
	})
	return r
}

func serve(r http.Handler, path string, hdr http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_ParamID(t *testing.T) {
	r := newEngine(&bytes.Buffer{})

	assert.Equal(t, http.StatusOK, serve(r, "/items/3", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/items/0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/items/x", nil).Code)
}

func Test_Error_DomainAndInternal(t *testing.T) {
	var logs bytes.Buffer
	r := newEngine(&logs)

	w := serve(r, "/conflict", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":{"code":"CONFLICT","reason":"TAKEN","message":"already taken"}}`, w.Body.String())

	// 内部エラーの詳細はレスポンスに出さずログにだけ残す
	w = serve(r, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	assert.Contains(t, logs.String(), "disk on fire")
}

func Test_RequestID_ReusedOrGenerated(t *testing.T) {
	r := newEngine(&bytes.Buffer{})

	w := serve(r, "/items/1", http.Header{web.HeaderRequestID: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(web.HeaderRequestID))

	w = serve(r, "/items/1", nil)
	require.NotEmpty(t, w.Header().Get(web.HeaderRequestID))
	assert.Len(t, w.Header().Get(web.HeaderRequestID), 36)
}
