package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body any, auth string) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url, auth string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func login(t *testing.T, s *Server) (string, string) {
	t.Helper()
	resp := postJSON(t, s.URL()+"users/login/", map[string]string{"username": "neo", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct{ Access, Refresh string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Access, out.Refresh
}

func TestServer_LoginAndProfile(t *testing.T) {
	s := New()
	defer s.Close()
	s.AddUser("neo", "pw", "neo@zion.io")

	access, refresh := login(t, s)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	assert.Equal(t, http.StatusOK, get(t, s.URL()+"users/profile/", access).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, s.URL()+"users/profile/", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, s.URL()+"users/profile/", refresh).StatusCode, "refresh token is not an access token")
}

func TestServer_BadCredentials(t *testing.T) {
	s := New()
	defer s.Close()
	s.AddUser("neo", "pw", "neo@zion.io")

	resp := postJSON(t, s.URL()+"users/login/", map[string]string{"username": "neo", "password": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_AccessTokenExpires(t *testing.T) {
	s := New(WithAccessTTL(time.Second))
	defer s.Close()
	s.AddUser("neo", "pw", "neo@zion.io")

	access, refresh := login(t, s)
	require.Eventually(t, func() bool {
		resp := get(t, s.URL()+"users/profile/", access)
		return resp.StatusCode == http.StatusUnauthorized
	}, 5*time.Second, 100*time.Millisecond)

	resp := postJSON(t, s.URL()+"users/token/refresh/", map[string]string{"refresh": refresh}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, s.RefreshCount())
}

func TestServer_ExpireAndRevoke(t *testing.T) {
	s := New(WithRotation())
	defer s.Close()
	s.AddUser("neo", "pw", "neo@zion.io")

	access, refresh := login(t, s)
	s.ExpireAccessTokens()
	assert.Equal(t, http.StatusUnauthorized, get(t, s.URL()+"users/profile/", access).StatusCode)

	resp := postJSON(t, s.URL()+"users/token/refresh/", map[string]string{"refresh": refresh}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct{ Access, Refresh string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Refresh)
	assert.Equal(t, http.StatusOK, get(t, s.URL()+"users/profile/", out.Access).StatusCode)

	// A rotated refresh token cannot be used twice.
	resp = postJSON(t, s.URL()+"users/token/refresh/", map[string]string{"refresh": refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	s.RevokeRefreshTokens()
	resp = postJSON(t, s.URL()+"users/token/refresh/", map[string]string{"refresh": out.Refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_BookingLifecycle(t *testing.T) {
	s := New()
	defer s.Close()
	s.AddUser("neo", "pw", "neo@zion.io")
	seats := s.AddShow(7, "A1", "A2")

	access, _ := login(t, s)

	resp := postJSON(t, s.URL()+"bookings/create/", map[string]any{"show": 7, "seats": []int64{seats[0].ID}}, access)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, s.URL()+"bookings/create/", map[string]any{"show": 7, "seats": []int64{seats[0].ID}}, access)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "seat already booked")

	var free []map[string]any
	require.NoError(t, json.NewDecoder(get(t, s.URL()+"seats/7/", "").Body).Decode(&free))
	assert.Len(t, free, 1)
}
