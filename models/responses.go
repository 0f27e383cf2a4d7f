package models

// FieldError describes a single request problem tied to an input field.
// Field may be empty for problems that concern the request as a whole.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body returned by the HTTP layer.
// It carries a structured list of field/kind-tagged problems and never
// exposes stack traces or internal identifiers.
type ErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// NewErrorResponse builds an ErrorResponse from a single message not tied
// to any particular field.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Errors: []FieldError{{Message: message}}}
}

// RegisterResponse is the JSON body returned by a successful registration.
// The new user's location is additionally exposed via the Location header.
type RegisterResponse struct {
	ID int64 `json:"id"`
}

// MessageResponse is a generic informational response body.
type MessageResponse struct {
	Message string `json:"message"`
}

// VersionResponse is the JSON body of GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
}
