package repository

import "errors"

// ErrNotFound is returned by every repository, regardless of backing store,
// when the requested record does not exist. The gorm implementations
// translate gorm.ErrRecordNotFound into it so services never depend on the
// persistence medium.
var ErrNotFound = errors.New("record not found")
