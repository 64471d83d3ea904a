// SPDX-License-Identifier: Apache-2.0

// Package sync implements the clipboard synchronization core: the sync-mode
// content filter, the chunked file-transfer layer, the cloud index manager
// and the engine that orchestrates a full bidirectional sync pass against a
// dumb WebDAV file store.
//
// The design is pull/merge: a pass analyzes local changes against the
// engine's last-known snapshot, fetches the remote index, merges both sides
// deterministically (newest LastModified wins, ties keep local) and uploads
// a full replacement index when anything changed. There is no incremental
// upload: the remote has no merge logic, so a full snapshot per write is the
// only safe mutation.
package sync
