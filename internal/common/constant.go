// Package common contains shared constants, sentinel errors and small helpers
// used across CineBook client components.
package common

// Header names set on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	RequestIDHeaderName     = "X-Request-ID"

	BearerPrefix    = "Bearer "
	JSONContentType = "application/json"
)

// Credential store slots.
const (
	AccessTokenKey  = "access"
	RefreshTokenKey = "refresh"
	UserKey         = "user"
)

// CredentialKeys lists every slot a session writes to the credential store.
var CredentialKeys = []string{AccessTokenKey, RefreshTokenKey, UserKey}

// API paths, relative to the configured base URL.
const (
	LoginPath        = "users/login/"
	RegisterPath     = "users/register/"
	TokenRefreshPath = "users/token/refresh/"
	ProfilePath      = "users/profile/"
	MoviesPath       = "movies/"
	BookingsPath     = "bookings/"
	BookingCreate    = "bookings/create/"
	TicketsPath      = "tickets/"
	SeatsPath        = "seats/"
)
