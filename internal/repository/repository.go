package repository

import "github.com/jackc/pgx/v5"

// ErrNotFound is the not-found sentinel shared by every backend. The memory
// backend returns it too, so callers never branch on the storage flavor.
var ErrNotFound = pgx.ErrNoRows
