package store

import "landregistry/pkg/platform/sentinel"

// ErrNotFound is returned by Update when no record has the given id.
var ErrNotFound = sentinel.ErrNotFound
