package detour

import "errors"

var (
	// ErrInvalidParam is returned when the input to a build is unusable.
	ErrInvalidParam = errors.New("detour: invalid param")
	// ErrWrongMagic is returned when tile data was not produced by this package.
	ErrWrongMagic = errors.New("detour: wrong magic number")
	// ErrWrongVersion is returned when tile data uses another format version.
	ErrWrongVersion = errors.New("detour: wrong version")
	// ErrCorruptData is returned when tile data is truncated or its counts
	// do not describe the bytes that follow.
	ErrCorruptData = errors.New("detour: corrupt tile data")
)
