// Package session owns the lifecycle of the client's API session.
//
// A session starts when Start stores the credentials returned by login or
// registration, and ends on Logout, either explicitly or because a refresh
// exchange failed. The host application learns about the end of a session
// through the hook registered with OnSessionTerminated.
//
// Controller implements api.Refresher, so it plugs directly into
// api.AuthDispatcher:
//
//	public := api.NewPublicDispatcher(baseURL, timeout, log)
//	ctrl := session.NewController(store, session.NewHTTPExchanger(public), log)
//	authed := api.NewAuthDispatcher(public, store, ctrl, log)
package session
