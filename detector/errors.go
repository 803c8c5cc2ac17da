package detector

import (
	"errors"
)

var (
	// ErrUnknownProvider marks an event whose emitting address has no
	// registry entry.  The scanner skips such events; it never substitutes
	// a default schema.
	ErrUnknownProvider = errors.New("unknown flash-loan provider")

	// ErrTokenMetadata marks a borrowed asset without a readable symbol.
	// Investigations degrade to an empty symbol instead of failing.
	ErrTokenMetadata = errors.New("failed to read token metadata")

	// ErrUpstreamRPC marks a failed chain read.  No partial report is
	// produced: the whole scan fails.
	ErrUpstreamRPC = errors.New("upstream rpc call failed")
)
