// Package apitest runs an in-process fake of the CineBook REST API for tests.
//
// The fake issues HS256 JWT access and refresh tokens with real expiry,
// enforces bearer authentication on the protected endpoints and answers
// 401 the way the real backend does, so the client's refresh protocol can be
// exercised end to end.
package apitest
