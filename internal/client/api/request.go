package api

import (
	"maps"
	"net/http"
	"slices"
)

// FormFile is a file part of a multipart request. The content is kept in
// memory so a replayed request can send it again.
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// Request describes one API call. It is a value: the With* methods and Retry
// return modified copies and never touch the receiver's maps or slices.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    any
	Form    map[string]string
	Files   []FormFile
	// Attempt is 0 for the original call and 1 for its replay after a refresh.
	Attempt int
}

func NewRequest(method, path string) Request {
	return Request{Method: method, Path: path}
}

func Get(path string) Request {
	return NewRequest(http.MethodGet, path)
}

func Post(path string, body any) Request {
	return NewRequest(http.MethodPost, path).WithBody(body)
}

func Put(path string, body any) Request {
	return NewRequest(http.MethodPut, path).WithBody(body)
}

func Delete(path string) Request {
	return NewRequest(http.MethodDelete, path)
}

// WithHeader returns a copy with the header set. Keys are canonicalized.
func (r Request) WithHeader(key, value string) Request {
	out := r.clone()
	if out.Headers == nil {
		out.Headers = make(map[string]string, 1)
	}
	out.Headers[http.CanonicalHeaderKey(key)] = value
	return out
}

// Header returns the value of a header set on the request.
func (r Request) Header(key string) string {
	return r.Headers[http.CanonicalHeaderKey(key)]
}

func (r Request) WithBody(body any) Request {
	out := r.clone()
	out.Body = body
	return out
}

// WithForm returns a copy carrying multipart form fields.
func (r Request) WithForm(fields map[string]string) Request {
	out := r.clone()
	out.Form = maps.Clone(fields)
	return out
}

// WithFile returns a copy with one more multipart file part.
func (r Request) WithFile(field, name string, content []byte) Request {
	out := r.clone()
	out.Files = append(out.Files, FormFile{Field: field, Name: name, Content: slices.Clone(content)})
	return out
}

// IsMultipart reports whether the request is sent as multipart/form-data.
func (r Request) IsMultipart() bool {
	return len(r.Form) > 0 || len(r.Files) > 0
}

// Retry returns the replay of r: same call, next attempt.
func (r Request) Retry() Request {
	out := r.clone()
	out.Attempt++
	return out
}

func (r Request) IsRetry() bool {
	return r.Attempt > 0
}

func (r Request) clone() Request {
	out := r
	out.Headers = maps.Clone(r.Headers)
	out.Form = maps.Clone(r.Form)
	out.Files = slices.Clone(r.Files)
	return out
}
