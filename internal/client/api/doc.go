// Package api dispatches requests to the CineBook HTTP API.
//
// # Overview
//
// Two dispatchers share one contract (Sender):
//
//  1. PublicDispatcher sends requests as they are, without credentials. It is
//     used for login, registration and the refresh-token exchange, and it is
//     the transport underneath AuthDispatcher.
//  2. AuthDispatcher attaches the stored access token as a bearer credential.
//     When the API answers 401 and a refresh token is stored, it asks its
//     Refresher for a new access token and replays the request once.
//
// Requests are described by the Request value type. A replay is a copy with
// Attempt incremented; a request with Attempt > 0 never triggers another
// refresh, so one call performs at most one refresh and one replay.
//
// # Error Handling
//
// Errors are matched with errors.Is:
//   - ErrUnavailable: the request never got an HTTP response.
//   - ErrUnauthorized: the API answered 401 (carried by *HTTPError).
//   - ErrSessionExpired: the refresh exchange failed and the session was ended.
//
// Any other non-2xx status is an *HTTPError and is returned together with the
// Response.
package api
