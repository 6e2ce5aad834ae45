package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenca-labs/presenca/internal/api/middleware"
	"github.com/presenca-labs/presenca/internal/ledger"
	"github.com/presenca-labs/presenca/internal/matcher"
	"github.com/presenca-labs/presenca/internal/service"
	"github.com/presenca-labs/presenca/internal/store"
)

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestApp wires the handlers against a real in-memory service with a
// pinned clock.
func createTestApp(t *testing.T, now time.Time) (*fiber.App, *service.AttendanceService) {
	t.Helper()

	svc := service.NewAttendanceService(
		store.New(3),
		ledger.NewMemory(time.UTC),
		matcher.New(3, 0.6),
		time.UTC,
	).WithClock(func() time.Time { return now })

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})

	identityHandler := NewIdentityHandler(svc, testLogger())
	attendanceHandler := NewAttendanceHandler(svc, testLogger())

	v1 := app.Group("/v1")
	v1.Post("/identities", identityHandler.Enroll)
	v1.Get("/identities", identityHandler.List)
	v1.Get("/identities/:id", identityHandler.Get)
	v1.Delete("/identities/:id", identityHandler.Delete)
	v1.Post("/attendance/recognize", attendanceHandler.Recognize)
	v1.Get("/attendance/today", attendanceHandler.Today)
	v1.Get("/attendance/stats", attendanceHandler.Stats)
	v1.Get("/attendance/day/:day", attendanceHandler.ByDay)
	v1.Get("/attendance/history/:id", attendanceHandler.History)

	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func enroll(t *testing.T, app *fiber.App, externalID, name string, embedding []float64) IdentityResponse {
	t.Helper()

	status, body := postJSON(t, app, "/v1/identities", EnrollRequest{
		ExternalID:  externalID,
		DisplayName: name,
		Embedding:   embedding,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var resp IdentityResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestAttendanceHandler_Recognize_Marked(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	alice := enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})

	status, body := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	assert.Equal(t, fiber.StatusCreated, status)

	var resp RecognizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "marked", resp.Status)
	require.NotNil(t, resp.Identity)
	assert.Equal(t, alice.ID, resp.Identity.ID)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "2026-03-10", resp.Event.Day)
	assert.Equal(t, 100, resp.Confidence)
}

func TestAttendanceHandler_Recognize_Duplicate(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})

	status, _ := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	assert.Equal(t, fiber.StatusOK, status)

	var resp RecognizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "duplicate", resp.Status)
	require.NotNil(t, resp.Event)
}

func TestAttendanceHandler_Recognize_NotRecognized(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	status, body := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	assert.Equal(t, fiber.StatusOK, status)

	var resp RecognizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "not_recognized", resp.Status)
	assert.Nil(t, resp.Identity)
	assert.Nil(t, resp.Event)
	// Empty enrollment set: no nearest distance to report.
	assert.Nil(t, resp.NearestDistance)
}

func TestAttendanceHandler_Recognize_DimensionMismatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	status, body := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "EMBEDDING_DIMENSION_MISMATCH")
}

func TestAttendanceHandler_Today(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})
	status, _ := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := getJSON(t, app, "/v1/attendance/today")
	assert.Equal(t, fiber.StatusOK, status)

	var events []EventResponse
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Alice", events[0].DisplayName)
}

func TestAttendanceHandler_ByDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	status, body := getJSON(t, app, "/v1/attendance/day/2026-03-10")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "[]", string(body))

	status, body = getJSON(t, app, "/v1/attendance/day/not-a-day")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "INVALID_DAY")
}

func TestAttendanceHandler_Stats(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})
	enroll(t, app, "stu_002", "Bob", []float64{0, 1, 0})

	status, _ := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := getJSON(t, app, "/v1/attendance/stats")
	assert.Equal(t, fiber.StatusOK, status)

	var stats struct {
		TotalRegistered int     `json:"total_registered"`
		PresentToday    int     `json:"present_today"`
		AbsentToday     int     `json:"absent_today"`
		AttendanceRate  float64 `json:"attendance_rate"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 2, stats.TotalRegistered)
	assert.Equal(t, 1, stats.PresentToday)
	assert.Equal(t, 1, stats.AbsentToday)
	assert.Equal(t, 50.0, stats.AttendanceRate)
}

func TestAttendanceHandler_History(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	alice := enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})
	status, _ := postJSON(t, app, "/v1/attendance/recognize", RecognizeRequest{
		Embedding: []float64{1, 0, 0},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := getJSON(t, app, "/v1/attendance/history/"+alice.ID)
	assert.Equal(t, fiber.StatusOK, status)

	var events []EventResponse
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)
	assert.Equal(t, alice.ID, events[0].IdentityID)

	status, body = getJSON(t, app, "/v1/attendance/history/not-a-uuid")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "VALIDATION_FAILED")
}
