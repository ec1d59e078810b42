package main

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

const (
	exitOK     = 0
	exitDecode = 1
	exitIO     = 2
	exitUsage  = 3
)

// usageError marks bad flags, arguments or configuration
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}

	switch mesh.KindOf(err) {
	case mesh.KindIO:
		return exitIO
	case mesh.KindUnknownFormat:
		return exitUsage
	case 0:
		// only cobra argument and flag errors reach here without a kind
		return exitUsage
	default:
		return exitDecode
	}
}
