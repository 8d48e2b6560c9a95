package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinebook/internal/common"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

func newPublic(t *testing.T, h http.HandlerFunc) (*PublicDispatcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewPublicDispatcher(srv.URL+"/api/", 2*time.Second, logging.Discard()), srv
}

func TestPublicDispatcher_JSONDefaultAndBaseURL(t *testing.T) {
	var (
		gotPath, gotCT, gotRequestID, gotAuth string
		gotBody                               map[string]string
	)
	d, _ := newPublic(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get(common.ContentTypeHeaderName)
		gotRequestID = r.Header.Get(common.RequestIDHeaderName)
		gotAuth = r.Header.Get(common.AuthorizationHeaderName)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"A1","refresh":"R1"}`))
	})

	resp, err := d.Send(context.Background(), Post(common.LoginPath, map[string]string{"username": "neo"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "/api/users/login/", gotPath)
	assert.Equal(t, common.JSONContentType, gotCT)
	assert.NotEmpty(t, gotRequestID)
	assert.Empty(t, gotAuth)
	assert.Equal(t, map[string]string{"username": "neo"}, gotBody)

	var out struct {
		Access string `json:"access"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "A1", out.Access)
}

func TestPublicDispatcher_MultipartOverridesContentType(t *testing.T) {
	var (
		field, fileName, fileBody string
		ct                        string
	)
	d, _ := newPublic(t, func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get(common.ContentTypeHeaderName)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		field = r.FormValue("username")
		f, hdr, err := r.FormFile("profile_picture")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		fileName, fileBody = hdr.Filename, string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})

	req := NewRequest(http.MethodPost, common.RegisterPath).
		WithForm(map[string]string{"username": "trinity"}).
		WithFile("profile_picture", "me.png", []byte("PNGDATA"))

	resp, err := d.Send(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, ct, "multipart/form-data")
	assert.Equal(t, "trinity", field)
	assert.Equal(t, "me.png", fileName)
	assert.Equal(t, "PNGDATA", fileBody)
}

func TestPublicDispatcher_PerCallHeaderOverride(t *testing.T) {
	var ct string
	d, _ := newPublic(t, func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get(common.ContentTypeHeaderName)
		_, _ = w.Write([]byte(`{}`))
	})

	req := Post("echo/", "plain text").WithHeader("content-type", "text/plain")
	_, err := d.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
}

func TestPublicDispatcher_Non2xxReturnsResponseAndHTTPError(t *testing.T) {
	d, _ := newPublic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"expired"}`))
	})

	resp, err := d.Send(context.Background(), Get(common.ProfilePath))
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Contains(t, err.Error(), `{"detail":"expired"}`)
}

func TestPublicDispatcher_ServerErrorIsNotUnauthorized(t *testing.T) {
	d, _ := newPublic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := d.Send(context.Background(), Get(common.MoviesPath))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestPublicDispatcher_TransportErrorIsUnavailable(t *testing.T) {
	d, srv := newPublic(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	resp, err := d.Send(context.Background(), Get(common.MoviesPath))
	require.Nil(t, resp)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 0, StatusCode(err))
}

func TestRequest_CopiesOnWrite(t *testing.T) {
	base := Get("x").WithHeader("A", "1")
	derived := base.WithHeader("B", "2").Retry()

	assert.Equal(t, map[string]string{"A": "1"}, base.Headers)
	assert.Equal(t, "2", derived.Header("b"))
	assert.False(t, base.IsRetry())
	assert.True(t, derived.IsRetry())

	withFile := base.WithFile("f", "n", []byte("x"))
	assert.True(t, withFile.IsMultipart())
	assert.False(t, base.IsMultipart())
}

func TestResponse_DecodeEmptyBody(t *testing.T) {
	var v map[string]any
	err := (&Response{StatusCode: http.StatusNoContent}).Decode(&v)
	require.Error(t, err)
}
