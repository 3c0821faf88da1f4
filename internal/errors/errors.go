// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately. Kind is carried
// for reporting only: no code in this module branches on it, and nothing retries on
// TransientIO.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// Parse indicates malformed input. DecodeTupleDatum degrades rather than
	// erroring, a bad DSN is reported as Configuration and a malformed
	// replication frame as Protocol, so no code path currently returns Parse.
	Parse Kind = "parse"
	// Protocol indicates the replication stream failed at the protocol
	// level: START_REPLICATION was rejected, the server sent an error
	// response, or a keepalive/XLogData frame could not be parsed.
	Protocol Kind = "protocol"
	// TransientIO indicates a connection or I/O failure plausibly recovered
	// by reconnecting: dropped sockets, timeouts, server restarts.
	TransientIO Kind = "transient_io"
	// Configuration indicates a problem with DSN, slot, publication, or
	// batch settings that a restart won't fix.
	Configuration Kind = "configuration"
	// Sink indicates a downstream consumer rejected or failed to apply a
	// batch or schema delta.
	Sink Kind = "sink"
	// Internal indicates a bug or invariant violation in this core itself.
	Internal Kind = "internal"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
