package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcal/internal/app"
	"sheetcal/internal/config"
)

const calendarCSV = `ЯНВАРЬ,,,,,,,
,ПОНЕДЕЛЬНИК,ВТОРНИК,СРЕДА,ЧЕТВЕРГ,ПЯТНИЦА,СУББОТА,ВОСКРЕСЕНЬЕ
,6,7,8,9,10,11,12
Гамлет,,прогон,,,,спектакль,
`

const saturdayCSV = `Организатор,Телефон,Должность,18:00,19:00
Сидорова Анна,+7 901,капельдинер,гардероб,
`

func newTestApp(t *testing.T, mutate func(*config.Config)) *app.App {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "календарь new.csv"), []byte(calendarCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Суббота.csv"), []byte(saturdayCSV), 0o600))

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Calendar.Year = 2025
	cfg.Calendar.Source.Dir = dir
	cfg.Schedule.Source.Dir = dir
	cfg.Schedule.Days = []string{"суббота"}
	if mutate != nil {
		mutate(cfg)
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := NewServer(newTestApp(t, nil)).Handler()
	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCalendarText(t *testing.T) {
	h := NewServer(newTestApp(t, nil)).Handler()

	rec := get(t, h, "/api/calendar?days=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Календарь обновлен: ")

	rec = get(t, h, "/api/calendar?days=366")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalendarTextRejectsBadDays(t *testing.T) {
	h := NewServer(newTestApp(t, nil)).Handler()

	for _, days := range []string{"-1", "0", "367", "100000000000", "abc", "7.5"} {
		t.Run(days, func(t *testing.T) {
			rec := get(t, h, "/api/calendar?days="+days)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "days must be an integer between 1 and 366")
		})
	}
}

func TestCalendarJSON(t *testing.T) {
	h := NewServer(newTestApp(t, nil)).Handler()

	rec := get(t, h, "/api/calendar.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []struct {
			Date string `json:"date"`
			Text string `json:"text"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, "2025-01-07", body.Events[0].Date)
	assert.Equal(t, "Гамлет: прогон", body.Events[0].Text)
	assert.Equal(t, "2025-01-11", body.Events[1].Date)
}

func TestCalendarICSEndpoint(t *testing.T) {
	h := NewServer(newTestApp(t, nil)).Handler()

	rec := get(t, h, "/calendar.ics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestCalendarSourceFailure(t *testing.T) {
	a := newTestApp(t, nil)
	require.NoError(t, os.Remove(filepath.Join(a.Config.Calendar.Source.Dir, "календарь new.csv")))
	h := NewServer(a).Handler()

	rec := get(t, h, "/api/calendar")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to load calendar")
}

func TestSchedule(t *testing.T) {
	h := NewServer(newTestApp(t, nil)).Handler()

	rec := get(t, h, "/api/schedule?q="+url.QueryEscape("сидорова"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "👤 Сидорова Анна\n📞 +7 901\n📋 капельдинер\n\n📅 Суббота:\n    18:00 - До конца: гардероб", rec.Body.String())

	rec = get(t, h, "/api/schedule?q=")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ошибка: Введите фамилию или фамилию+имя для поиска", rec.Body.String())
}

func TestUnconfiguredSources(t *testing.T) {
	a, err := app.New(context.Background(), config.DefaultConfig())
	require.NoError(t, err)
	h := NewServer(a).Handler()

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/calendar").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/schedule?q=x").Code)
}

func TestBasicAuth(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "s3cret"}
	})
	h := NewServer(a).Handler()

	// Health stays open for probes.
	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)

	rec := get(t, h, "/api/calendar")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	req.SetBasicAuth("admin", "s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBasicAuthDisabledWithEmptyCredentials(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin"}
	})
	assert.Equal(t, http.StatusOK, get(t, NewServer(a).Handler(), "/api/calendar").Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Listen = "127.0.0.1:0" })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ListenAndServe(ctx, a) }()
	cancel()
	assert.NoError(t, <-done)
}

func TestParseHelpers(t *testing.T) {
	n, err := parseDays("", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	n, err = parseDays("3", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = parseDays("abc", 7)
	assert.Error(t, err)
	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("true"))
	assert.False(t, parseBool("yes"))
	assert.False(t, parseBool(""))
}
