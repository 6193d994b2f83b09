// Package helloasso provides a client for the HelloAsso v5 API.
//
// It covers the calls needed to collect registration documents: the OAuth2
// client-credentials token exchange, the organization form listing, the paginated
// order listing of a form, the order detail, and attachment downloads from the
// file host, which authenticates with the platform session cookie instead of the
// bearer token.
//
// Responses are decoded into typed records. Shape problems surface as
// ErrMalformedResponse or ErrMalformedTimestamp, non-2xx responses as *APIError.
package helloasso
