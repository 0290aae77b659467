package database

import "errors"

// ErrUnsupportedDriver indicates a driver name other than sqlite or postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")
