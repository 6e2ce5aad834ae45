package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// EnrollRequestBody documents the enrollment body
type EnrollRequestBody struct {
	ExternalID  string    `json:"external_id" example:"emp-042"`
	DisplayName string    `json:"display_name" example:"Ana Souza"`
	Embedding   []float64 `json:"embedding"`
}

// IdentityData documents an enrolled identity
type IdentityData struct {
	ID           string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExternalID   string `json:"external_id" example:"emp-042"`
	DisplayName  string `json:"display_name" example:"Ana Souza"`
	EmbeddingDim int    `json:"embedding_dim" example:"128"`
	CreatedAt    string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// RecognizeRequestBody documents a recognition probe
type RecognizeRequestBody struct {
	Embedding []float64 `json:"embedding"`
}

// RecognizeData documents the tagged recognition outcome
type RecognizeData struct {
	Status     string       `json:"status" example:"marked"`
	Identity   IdentityData `json:"identity,omitempty"`
	Confidence int          `json:"confidence,omitempty" example:"97"`
}

// EventData documents an attendance event
type EventData struct {
	ID          string `json:"id" example:"6f1e8400-e29b-41d4-a716-446655440000"`
	IdentityID  string `json:"identity_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExternalID  string `json:"external_id" example:"emp-042"`
	DisplayName string `json:"display_name" example:"Ana Souza"`
	Day         string `json:"day" example:"2024-01-01"`
	RecordedAt  string `json:"recorded_at" example:"2024-01-01T08:12:45Z"`
	Confidence  int    `json:"confidence" example:"97"`
}

// StatsData documents the daily stats
type StatsData struct {
	TotalRegistered int     `json:"total_registered" example:"5"`
	PresentToday    int     `json:"present_today" example:"3"`
	AbsentToday     int     `json:"absent_today" example:"2"`
	AttendanceRate  float64 `json:"attendance_rate" example:"60"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Presenca Attendance API",
		Version:     "v1.0.0",
		Description: "Face-embedding attendance service: enrollment, recognition with per-day dedup, and daily statistics",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.POST,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Enroll a new identity"),
			endpoint.WithDescription("Registers an identity with its reference embedding. The external_id must be unique."),
			endpoint.WithBody(EnrollRequestBody{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "201", "Identity enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "EMBEDDING_DIMENSION_MISMATCH"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "IDENTITY_ALREADY_EXISTS"}, "409", "Conflict"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]IdentityData{}, "200", "OK"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Get an enrolled identity"),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "200", "OK"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND"}, "404", "Not Found"),
			}),
		),

		endpoint.New(
			endpoint.DELETE,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Delete an identity"),
			endpoint.WithDescription("Removes the identity and its embedding. Attendance history is retained."),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND"}, "404", "Not Found"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/attendance/recognize",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Recognize a probe and mark attendance"),
			endpoint.WithDescription("Matches the probe embedding against the enrollment set and records today's attendance once per identity. Duplicate and not_recognized are normal outcomes."),
			endpoint.WithBody(RecognizeRequestBody{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognizeData{Status: "marked"}, "201", "Attendance marked"),
				response.New(RecognizeData{Status: "duplicate"}, "200", "Already marked today"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMBEDDING_DIMENSION_MISMATCH"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/attendance/today",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Today's attendance events"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EventData{}, "200", "OK"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/attendance/day/{day}",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Attendance events for a day"),
			endpoint.WithParams(
				parameter.StrParam("day", parameter.Path, parameter.WithDescription("Day (YYYY-MM-DD)")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EventData{}, "200", "OK"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_DAY"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/attendance/history/{id}",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Attendance history for an identity"),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EventData{}, "200", "OK"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/attendance/stats",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Daily attendance statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsData{}, "200", "OK"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
