package store

import "errors"

// ErrNotFound is returned when a lookup key has no corresponding
// record — an unknown game ID, a missing archive offset, or a sidecar
// section the caller asked for that was never built.
var ErrNotFound = errors.New("store: not found")

// ErrCorrupt is returned for archive/sidecar format errors that are
// fatal to the handle: bad magic, unsupported version, a truncated
// record, or a checksum mismatch. Once raised, the handle is unusable.
var ErrCorrupt = errors.New("store: corrupt archive")
