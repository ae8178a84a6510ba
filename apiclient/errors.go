package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/oauthmodel"
)

// Kind classifies every error the client returns
type Kind string

const (
	KindNetwork     Kind = "network"      // The request never reached the server
	KindAuthExpired Kind = "auth_expired" // 401 with a refresh path; normally recovered internally
	KindAuthInvalid Kind = "auth_invalid" // 401 with no refresh possible, or the refresh failed
	KindClient      Kind = "client"       // 4xx other than 401
	KindServer      Kind = "server"       // 5xx
	KindCancelled   Kind = "cancelled"    // Abandoned because the caller or the session went away
)

const (
	msgNetwork     = "unable to reach the server, check your connection"
	msgAuthInvalid = "session expired, please log in again"
	msgAuthExpired = "session refresh interrupted"
	msgServer      = "internal error, try again later"
	msgCancelled   = "request abandoned, session ended"
	msgInterrupted = "request cancelled"
	msgBadRequest  = "invalid request"
	msgFailed      = "request failed"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          msgBadRequest,
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "validation failed",
}

// Error is the structured error surfaced to callers. UI layers decide how to present Message.
type Error struct {
	Kind    Kind
	Message string
	Status  int    // HTTP status, zero when no response was received
	Code    string // Backend error code such as "TOKEN_EXPIRED", when provided
	Err     error  // Underlying cause
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a client error, or "" for anything else
func KindOf(err error) Kind {
	var apiErr *Error
	if apperrors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusMessage is the generic message for a status when the server did not provide one
func StatusMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return msgAuthInvalid
	case status >= 500:
		return msgServer
	}
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return msgFailed
}

// classify turns a non-2xx response into an *Error. Server messages are used for 4xx only.
func classify(resp *Response) *Error {
	var body oauthmodel.ErrorResponse
	_ = json.Unmarshal(resp.Body, &body)

	e := &Error{
		Status:  resp.StatusCode,
		Code:    body.Error,
		Message: StatusMessage(resp.StatusCode),
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		e.Kind = KindAuthInvalid
	case resp.StatusCode >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindClient
		if body.Message != "" {
			e.Message = body.Message
		}
	}
	return e
}

func authInvalid(status int, err error) *Error {
	return &Error{Kind: KindAuthInvalid, Message: msgAuthInvalid, Status: status, Err: err}
}

// cancelled wraps the cause so errors.Is(err, ErrSessionEnded) holds
func cancelled(err error) *Error {
	cause := apperrors.ErrSessionEnded
	if err != nil {
		cause = fmt.Errorf("%w: %w", apperrors.ErrSessionEnded, err)
	}
	return &Error{Kind: KindCancelled, Message: msgCancelled, Err: cause}
}
