package repositories

import "errors"

// ErrNotFound is returned by every repository when the requested entity does
// not exist. Services translate it into the API error taxonomy.
var ErrNotFound = errors.New("entity not found")
