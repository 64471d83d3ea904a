package transport

import "errors"

var (
	// ErrNotFound indicates the remote object does not exist (HTTP 404).
	ErrNotFound = errors.New("remote object not found")

	// ErrConflict indicates the server refused the write (HTTP 409).
	ErrConflict = errors.New("remote conflict")

	// ErrUnauthorized indicates rejected credentials (HTTP 401/403).
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrNetworkFailure indicates the request never produced an HTTP
	// response: DNS failure, refused connection, timeout.
	ErrNetworkFailure = errors.New("network failure")
)
