package apiclient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BeforeSend runs on every outgoing attempt, in order. An error aborts the request.
type BeforeSend func(req *http.Request) error

// AfterReceive runs on every response, in order, before classification
type AfterReceive func(resp *Response)

// requestID tags each attempt so client and server logs can be correlated; a caller supplied ID is kept
func requestID(req *http.Request) error {
	if req.Header.Get(headerRequestID) == "" {
		req.Header.Set(headerRequestID, uuid.NewString())
	}
	return nil
}

func userAgent(agent string) BeforeSend {
	return func(req *http.Request) error {
		if agent != "" {
			req.Header.Set("User-Agent", agent)
		}
		return nil
	}
}

// bearer attaches the access token captured for this attempt
func bearer(accessToken string) BeforeSend {
	return func(req *http.Request) error {
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}
		return nil
	}
}

// logResponse never logs headers, so tokens stay out of the logs
func logResponse(logger zerolog.Logger) AfterReceive {
	return func(resp *Response) {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("path", resp.Request.URL.Path).
			Int("status", resp.StatusCode).
			Str("request_id", resp.Request.Header.Get(headerRequestID)).
			Dur("duration", resp.Duration).
			Msg("api response")
	}
}
