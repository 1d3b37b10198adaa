package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "careauth/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithRequestID(t *testing.T, header string) (string, string, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	mw := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var fromEcho, fromCtx string
	handler := mw.Process(func(c echo.Context) error {
		fromEcho = deliverycontext.GetRequestID(c)
		fromCtx = deliverycontext.GetRequestIDFromContext(c.Request().Context())

		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, header)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	assert.Equal(t, fromEcho, fromCtx)

	return fromEcho, rec.Header().Get(deliverycontext.HeaderXRequestID), rec
}

func TestRequestID_ReusesClientHeader(t *testing.T) {
	id, header, _ := serveWithRequestID(t, "trace-42")

	assert.Equal(t, "trace-42", id)
	assert.Equal(t, "trace-42", header)
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	id, header, _ := serveWithRequestID(t, "")

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, header)
}

func TestRequestID_RejectsUnsafeHeader(t *testing.T) {
	for name, raw := range map[string]string{
		"space":    "a b",
		"control":  "abc\x01",
		"too long": strings.Repeat("x", maxClientRequestIDLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			id, _, _ := serveWithRequestID(t, raw)

			assert.NotEqual(t, raw, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		})
	}
}
