package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityHandler_Enroll(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	status, body := postJSON(t, app, "/v1/identities", EnrollRequest{
		ExternalID:  "stu_001",
		DisplayName: "Alice",
		Embedding:   []float64{1, 0, 0},
	})
	assert.Equal(t, fiber.StatusCreated, status)

	var resp IdentityResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "stu_001", resp.ExternalID)
	assert.Equal(t, "Alice", resp.DisplayName)
	assert.Equal(t, 3, resp.EmbeddingDim)
	_, err := uuid.Parse(resp.ID)
	assert.NoError(t, err)
}

func TestIdentityHandler_Enroll_Validation(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	status, body := postJSON(t, app, "/v1/identities", EnrollRequest{
		DisplayName: "Alice",
		Embedding:   []float64{1, 0, 0},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "VALIDATION_FAILED")
}

func TestIdentityHandler_Enroll_DuplicateExternalID(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})

	status, body := postJSON(t, app, "/v1/identities", EnrollRequest{
		ExternalID:  "stu_001",
		DisplayName: "Impostor",
		Embedding:   []float64{0, 1, 0},
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, string(body), "IDENTITY_ALREADY_EXISTS")
}

func TestIdentityHandler_Enroll_WrongDimension(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	status, body := postJSON(t, app, "/v1/identities", EnrollRequest{
		ExternalID:  "stu_001",
		DisplayName: "Alice",
		Embedding:   []float64{1, 0},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "EMBEDDING_DIMENSION_MISMATCH")
}

func TestIdentityHandler_GetAndList(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	alice := enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})
	enroll(t, app, "stu_002", "Bob", []float64{0, 1, 0})

	status, body := getJSON(t, app, "/v1/identities/"+alice.ID)
	assert.Equal(t, fiber.StatusOK, status)

	var got IdentityResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Alice", got.DisplayName)
	// The embedding never leaves the service.
	assert.NotContains(t, string(body), "embedding\":")

	status, body = getJSON(t, app, "/v1/identities")
	assert.Equal(t, fiber.StatusOK, status)

	var list []IdentityResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 2)

	status, body = getJSON(t, app, "/v1/identities/"+uuid.NewString())
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, string(body), "IDENTITY_NOT_FOUND")
}

func TestIdentityHandler_Delete(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	app, _ := createTestApp(t, now)

	alice := enroll(t, app, "stu_001", "Alice", []float64{1, 0, 0})

	req := httptest.NewRequest("DELETE", "/v1/identities/"+alice.ID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Second delete reports not found.
	req = httptest.NewRequest("DELETE", "/v1/identities/"+alice.ID, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
