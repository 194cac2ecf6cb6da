package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a classified API failure: any non-2xx response from the
// backend. Body holds the parsed response body (or the raw text when the
// body was not JSON) for callers that need structured detail.
type Error struct {
	Status  int
	Message string
	Body    any

	// bodyMessage is the non-empty "message" field extracted from a JSON
	// body at classification time, if one was present.
	bodyMessage string
}

// newError builds an Error from a failed response. Message precedence:
// the body's "message" field, then the transport's status text, then a
// generic fallback.
func newError(status int, statusText string, body any) *Error {
	bodyMessage := extractMessage(body)
	message := bodyMessage
	if message == "" {
		message = statusText
	}
	if message == "" {
		message = fmt.Sprintf("Request failed (%d)", status)
	}
	return &Error{
		Status:      status,
		Message:     message,
		Body:        body,
		bodyMessage: bodyMessage,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// extractMessage pulls a non-empty string "message" field out of a parsed
// JSON body, if the body has one.
func extractMessage(body any) string {
	m, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	message, ok := m["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return ""
	}
	return message
}

// IsAuthLoss reports whether err is a classified API error signalling
// authorization loss (401 or 403). Callers observing auth loss on a call
// made with the current token must tear the session down.
func IsAuthLoss(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// MessageFor maps a failure to a user-facing message. Precedence: the
// structured body's "message" field, then fixed strings for 401/403/409,
// then a generic per-status fallback, then the failure's own message, then
// "Unexpected error". Structured-body messages always win over generic
// status text.
func MessageFor(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.bodyMessage != "" {
			return apiErr.bodyMessage
		}
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "Invalid credentials or expired session"
		case http.StatusForbidden:
			return "You do not have permission to perform this action"
		case http.StatusConflict:
			return "Resource already exists"
		}
		return fmt.Sprintf("Request failed (%d)", apiErr.Status)
	}

	if err != nil && strings.TrimSpace(err.Error()) != "" {
		return err.Error()
	}
	return "Unexpected error"
}
