package api

import "github.com/danielgtaylor/huma/v2"

// envelopeVersion is bumped when the envelope shape changes so clients
// can detect servers they do not understand.
const envelopeVersion = 1

// successEnvelope wraps successful response bodies.
type successEnvelope struct {
	V       int  `json:"v" doc:"Envelope version"`
	Success bool `json:"success" doc:"Always true for success responses"`
	Data    any  `json:"data,omitempty" doc:"Response payload"`
}

// errorEnvelope wraps error response bodies.
type errorEnvelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Error   string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the versioned
// envelope: {v, success, data} on success, {v, success, error, code,
// message, details} on failure. Registered as a huma transformer so
// handlers return bare payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	// Status classes other than 2xx that are not APIErrors still need
	// the error shape (huma's own 404/405 for unknown routes).
	if len(status) > 0 && status[0] != '2' {
		return &errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   "request failed",
			Code:    statusToCode(statusInt(status)),
		}, nil
	}

	return &successEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

// statusInt parses a three-digit status string, returning 500 on junk.
func statusInt(status string) int {
	n := 0
	for _, c := range status {
		if c < '0' || c > '9' {
			return 500
		}
		n = n*10 + int(c-'0')
	}
	if n < 100 || n > 599 {
		return 500
	}
	return n
}
