package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	e := echo.New()
	e.Use(Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.ErrNotFound })
	e.GET("/bad", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "Validation error") })
	e.GET("/boom", func(c echo.Context) error { return echo.ErrInternalServerError })

	cases := []struct {
		path    string
		status  int
		level   zapcore.Level
		message string
	}{
		{path: "/ok", status: http.StatusOK, level: zapcore.InfoLevel, message: "HTTP request completed"},
		{path: "/missing", status: http.StatusNotFound, level: zapcore.WarnLevel, message: "HTTP request rejected"},
		{path: "/bad", status: http.StatusBadRequest, level: zapcore.WarnLevel, message: "HTTP request rejected"},
		{path: "/boom", status: http.StatusInternalServerError, level: zapcore.ErrorLevel, message: "HTTP request failed"},
	}

	for _, tc := range cases {
		logs.TakeAll()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, tc.status, rec.Code, tc.path)

		entries := logs.All()
		require.Len(t, entries, 1, tc.path)
		assert.Equal(t, tc.level, entries[0].Level, tc.path)
		assert.Equal(t, tc.message, entries[0].Message, tc.path)
		assert.EqualValues(t, tc.status, entries[0].ContextMap()["status"], tc.path)
	}
}
