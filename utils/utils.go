package utils

import (
	"errors"
	"unsafe"
)

func FlattenErrors(errs []error) error {
	switch len(errs) {
	default:
		return errors.Join(errs...)
	case 1:
		return errs[0]
	case 0:
		return nil
	}
}

// Str casts fasthttp's byte-slices to strings without copying.  The caller
// must not retain the result past the lifetime of the input.
func Str(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
