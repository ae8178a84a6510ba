package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/pkg/errors"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
)

// PendingRequest is an outbound call captured with a fully serialised body so it can be replayed once.
type PendingRequest struct {
	Method      string
	Path        string // Escaped and relative to the client's base URL, e.g. "/posts/tag/CI%2FCD"
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
	Public      bool // Sent without credentials and never refreshed
}

// RequestOption adjusts a PendingRequest
type RequestOption func(*PendingRequest)

// WithQuery merges query parameters into the request
func WithQuery(q url.Values) RequestOption {
	return func(p *PendingRequest) {
		for k, vs := range q {
			for _, v := range vs {
				p.Query.Add(k, v)
			}
		}
	}
}

// WithParam adds a single query parameter
func WithParam(key, value string) RequestOption {
	return func(p *PendingRequest) {
		p.Query.Add(key, value)
	}
}

func WithHeader(key, value string) RequestOption {
	return func(p *PendingRequest) {
		p.Header.Set(key, value)
	}
}

// Public marks a route that needs no credentials, e.g. the Kakao login endpoints
func Public() RequestOption {
	return func(p *PendingRequest) {
		p.Public = true
	}
}

func newPendingRequest(method, path string, body any, options ...RequestOption) (*PendingRequest, error) {
	if method == "" {
		method = http.MethodGet
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrInvalidRequest, "parse path %q: %v", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, errors.Wrapf(apperrors.ErrInvalidRequest, "path %q must be relative to the API base URL", path)
	}

	p := &PendingRequest{
		Method: strings.ToUpper(method),
		Path:   ref.EscapedPath(),
		Query:  ref.Query(),
		Header: make(http.Header),
	}
	for _, opt := range options {
		opt(p)
	}

	switch b := body.(type) {
	case nil:
	case *MultipartForm:
		if p.Body, p.ContentType, err = b.encode(); err != nil {
			return nil, err
		}
	default:
		if p.Body, err = json.Marshal(b); err != nil {
			return nil, errors.Wrapf(apperrors.ErrInvalidRequest, "encode body: %v", err)
		}
		p.ContentType = contentTypeJSON
	}
	return p, nil
}

// httpRequest builds a fresh *http.Request; called once per attempt so replays get an unread body
func (p *PendingRequest) httpRequest(ctx context.Context, base *url.URL) (*http.Request, error) {
	u := *base
	escaped := strings.TrimRight(base.EscapedPath(), "/") + "/" + strings.TrimLeft(p.Path, "/")
	path, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrInvalidRequest, "[apiclient httpRequest] path %q: %v", escaped, err)
	}
	u.Path, u.RawPath = path, escaped
	u.RawQuery = p.Query.Encode()

	var body io.Reader
	if p.Body != nil {
		body = bytes.NewReader(p.Body)
	}
	req, err := http.NewRequestWithContext(ctx, p.Method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "[apiclient httpRequest]")
	}

	for k, vs := range p.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if p.ContentType != "" {
		req.Header.Set("Content-Type", p.ContentType)
	}
	return req, nil
}

// MultipartForm is a file upload body; it is sent as multipart/form-data instead of JSON.
type MultipartForm struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename, contentType string
	data                         []byte
}

func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

// AddField appends a text field; fields keep insertion order
func (f *MultipartForm) AddField(name, value string) *MultipartForm {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part. An empty contentType is sniffed from the data.
func (f *MultipartForm) AddFile(field, filename, contentType string, data []byte) *MultipartForm {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	f.files = append(f.files, formFile{field: field, filename: filename, contentType: contentType, data: data})
	return f
}

// AddFileFromPath reads the file at path into the form
func (f *MultipartForm) AddFileFromPath(field, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "[apiclient AddFileFromPath] read %s", path)
	}
	f.AddFile(field, filepath.Base(path), "", data)
	return nil
}

func (f *MultipartForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", errors.Wrap(err, "[apiclient MultipartForm] write field")
		}
	}
	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(file.field), escapeQuotes(file.filename)))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrap(err, "[apiclient MultipartForm] create part")
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, "", errors.Wrap(err, "[apiclient MultipartForm] write part")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "[apiclient MultipartForm] close")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
