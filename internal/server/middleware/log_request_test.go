package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestLogRequestRedactsForms(t *testing.T) {
	log, logs := newObservedLogger()

	e := echo.New()
	e.Use(LogRequest(LogRequestConfig{Logger: log}))
	e.POST("/account/login", func(c echo.Context) error {
		_ = c.FormValue("email")
		return c.Redirect(http.StatusFound, "/account")
	})

	form := url.Values{"email": {"ada@example.com"}, "password": {"hunter2"}}
	req := httptest.NewRequest(http.MethodPost, "/account/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	e.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.EqualValues(t, http.StatusFound, fields["status"])
	logged, ok := fields["form"].(url.Values)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", logged.Get("email"))
	assert.Equal(t, redacted, logged.Get("password"))
}

func TestLogRequestLevels(t *testing.T) {
	log, logs := newObservedLogger()

	e := echo.New()
	e.Use(LogRequest(LogRequestConfig{
		Logger:  log,
		Enabled: func(c echo.Context) bool { return c.Request().URL.Path != "/health" },
		KeyAndValues: func(c echo.Context) []interface{} {
			return []interface{}{"operations", []string{"Collection"}}
		},
	}))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/collections/:handle", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Collection nope not found")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	for _, path := range []string{"/health", "/collections/nope", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, []interface{}{"Collection"}, entries[0].ContextMap()["operations"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestRedactJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "no secrets", in: `{"email":"ada@example.com"}`, want: `{"email":"ada@example.com"}`},
		{name: "password", in: `{"email":"ada@example.com","password":"hunter2"}`, want: `{"email":"ada@example.com","password":"[REDACTED]"}`},
		{name: "new password", in: `{"newPassword":"a","newPasswordConfirm":"a"}`, want: `{"newPassword":"[REDACTED]","newPasswordConfirm":"[REDACTED]"}`},
		{name: "not an object", in: `["password"]`, want: `["password"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactJSON(json.RawMessage(tt.in), DefaultSensitive)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
