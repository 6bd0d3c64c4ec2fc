// Package response renders the JSON envelope shared by every endpoint:
//
//	success: {"success":true,"data":...,"count":...,"meta":...}
//	error:   {"success":false,"error":{"code","message","requestId","stack"}}
//
// Error envelopes are produced only by the HTTP error handler; handlers use
// the success helpers here.
package response

import (
	"github.com/labstack/echo/v4"
)

const prettyIndent = "  "

// Envelope is the success shape.
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Count   *int           `json:"count,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// ErrorBody is the error detail inside an error envelope.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Stack     string `json:"stack,omitempty"`
}

// ErrorEnvelope is the error shape.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// JSON writes a success envelope with just a data payload.
func JSON(c echo.Context, status int, data any) error {
	return write(c, status, Envelope{Success: true, Data: data})
}

// List writes a success envelope carrying a collection and its count.
func List[T any](c echo.Context, status int, items []T) error {
	n := len(items)
	if items == nil {
		items = []T{}
	}
	return write(c, status, Envelope{Success: true, Data: items, Count: &n})
}

// WithMeta writes a success envelope with an additional meta object.
func WithMeta(c echo.Context, status int, data any, meta map[string]any) error {
	return write(c, status, Envelope{Success: true, Data: data, Meta: meta})
}

// Error writes an error envelope. Used by the HTTP error handler only.
func Error(c echo.Context, status int, body ErrorBody) error {
	return write(c, status, ErrorEnvelope{Success: false, Error: body})
}

// write honours the ?pretty query parameter in every environment.
func write(c echo.Context, status int, payload any) error {
	if c.QueryParam("pretty") != "" {
		return c.JSONPretty(status, payload, prettyIndent)
	}
	return c.JSON(status, payload)
}
