// SPDX-License-Identifier: Apache-2.0

// Package transport provides the thin WebDAV client the sync core talks
// through. The remote endpoint is a dumb file store: only PUT, GET, DELETE,
// MKCOL and PROPFIND are used, and no request carries sync semantics.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapWebDAVError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrNotFound] for 404).
package transport

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/file_transport_mock.go -package=mock

// FileTransport defines protocol-agnostic file access on the remote
// endpoint. All paths are relative to the configured base path.
// Implementations are responsible for authentication and for mapping
// transport-level errors to the sentinel values defined in this package.
type FileTransport interface {
	// PutFile uploads data to remotePath, replacing any existing object.
	PutFile(ctx context.Context, remotePath string, data []byte) error

	// GetFile downloads the object at remotePath. Returns [ErrNotFound]
	// (wrapped) if the object does not exist.
	GetFile(ctx context.Context, remotePath string) ([]byte, error)

	// DeleteFile removes the object at remotePath. Deleting a missing object
	// returns [ErrNotFound].
	DeleteFile(ctx context.Context, remotePath string) error

	// MkCol creates the collection (directory) at remotePath. Creating a
	// collection that already exists is a no-op.
	MkCol(ctx context.Context, remotePath string) error

	// Exists probes remotePath with a depth-0 PROPFIND and reports whether
	// the object is present. A 404 is not an error.
	Exists(ctx context.Context, remotePath string) (bool, error)

	// Options performs an OPTIONS capability probe against the endpoint
	// root. Used once at startup to fail fast on misconfiguration.
	Options(ctx context.Context) error
}
