package apiclient

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/pkg/errors"
)

// maxBodySize caps how much of a response body is buffered
const maxBodySize = 32 << 20

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Request    *http.Request
	Duration   time.Duration
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if v == nil || len(r.Body) == 0 {
		return nil
	}
	if s, ok := v.(*string); ok && !json.Valid(r.Body) {
		*s = string(r.Body)
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		path := ""
		if r.Request != nil {
			path = r.Request.URL.Path
		}
		return errors.Wrapf(apperrors.ErrInvalidBody, "decode %s: %v", path, err)
	}
	return nil
}
