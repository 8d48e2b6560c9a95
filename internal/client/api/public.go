package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/cinebook/internal/common"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

const apiMaxConns = 32

// Sender sends a request and returns the response. Implementations return a
// non-nil *Response together with an *HTTPError for non-2xx statuses.
type Sender interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// PublicDispatcher sends requests without credentials.
type PublicDispatcher struct {
	client *resty.Client
	log    logging.Logger
}

// NewPublicDispatcher builds a dispatcher for the API rooted at baseURL.
// Requests default to a JSON content type and time out after timeout.
func NewPublicDispatcher(baseURL string, timeout time.Duration, log logging.Logger) *PublicDispatcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = apiMaxConns
	transport.MaxIdleConnsPerHost = apiMaxConns

	client := resty.NewWithClient(&http.Client{
		Timeout:   timeout,
		Transport: transport,
	}).
		SetBaseURL(baseURL).
		SetHeader(common.ContentTypeHeaderName, common.JSONContentType).
		SetHeader("Accept", common.JSONContentType).
		SetLogger(restyLogger{log: log})

	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(common.RequestIDHeaderName) == "" {
			r.SetHeader(common.RequestIDHeaderName, uuid.NewString())
		}
		return nil
	})

	return &PublicDispatcher{client: client, log: log}
}

func (d *PublicDispatcher) Send(ctx context.Context, req Request) (*Response, error) {
	r := d.client.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}

	switch {
	case req.IsMultipart():
		r.SetMultipartFormData(req.Form)
		for _, f := range req.Files {
			r.SetFileReader(f.Field, f.Name, bytes.NewReader(f.Content))
		}
	case req.Body != nil:
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrUnavailable, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}

	d.log.Debug(ctx, "api call",
		"method", req.Method,
		"path", req.Path,
		"status", out.StatusCode,
		"attempt", req.Attempt,
		"request_id", resp.Request.Header.Get(common.RequestIDHeaderName),
		"elapsed", resp.Time(),
	)

	if !resp.IsSuccess() {
		return out, &HTTPError{Method: req.Method, Path: req.Path, StatusCode: out.StatusCode, Body: out.Body}
	}
	return out, nil
}

// restyLogger routes resty's own diagnostics into the application logger.
type restyLogger struct {
	log logging.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(context.Background(), fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(context.Background(), fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, v...), "component", "resty")
}
