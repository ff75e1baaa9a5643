package ir

import (
	"errors"
	"fmt"
)

// ErrUnsupportedRank matches every UnsupportedRankError via errors.Is.
var ErrUnsupportedRank = errors.New("unsupported rank")

// UnsupportedRankError reports a rank outside the range a codec supports
// for the requested packing. It is raised before any IR is built.
type UnsupportedRankError struct {
	Rank    int     // Requested rank
	Packing Packing // Packing the codec was asked for
	Op      string  // "flat indexing" or "reshaping"
}

// Error implements the error interface.
func (e *UnsupportedRankError) Error() string {
	return fmt.Sprintf("%s %d-D %s is not supported (ranks 1-%d)", e.Packing, e.Rank, e.Op, e.Packing.MaxRank())
}

// Is reports whether target is ErrUnsupportedRank.
func (e *UnsupportedRankError) Is(target error) bool {
	return target == ErrUnsupportedRank
}
