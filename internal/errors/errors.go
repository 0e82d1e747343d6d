// Package errors provides sentinel errors and error types for the
// cotulenh-go engine. It defines the failure taxonomy of the move pipeline
// and structured types that preserve context while allowing inspection with
// errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidSquare indicates a malformed board coordinate.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidFEN indicates a malformed position string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that violates the game rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoSuchMove indicates a request that matches no legal move.
	ErrNoSuchMove = errors.New("no such move")

	// ErrAmbiguousMove indicates a request that matches more than one
	// legal move.
	ErrAmbiguousMove = errors.New("ambiguous move")

	// ErrStackCombination indicates the combination oracle rejected a
	// requested grouping. The operation is never partially applied.
	ErrStackCombination = errors.New("stack combination rejected")

	// ErrDeployInvariant indicates a deploy-session piece-count mismatch.
	// This is a programming error, not a recoverable user error.
	ErrDeployInvariant = errors.New("deploy session invariant violated")

	// ErrNoDeploySession indicates a session operation with no session
	// active.
	ErrNoDeploySession = errors.New("no deploy session active")

	// ErrTerrainViolation indicates a piece on incompatible terrain.
	// Generation prevents this; reaching it at execution time is a bug.
	ErrTerrainViolation = errors.New("terrain violation")

	// ErrNoHistory indicates an undo with no move to undo.
	ErrNoHistory = errors.New("no move to undo")
)

// MoveError wraps errors with move-request context: the offending move
// text, the position it was tried in, and, for ambiguous requests, the
// candidate set. It supports unwrapping via errors.Is() and errors.As().
type MoveError struct {
	Err        error    // The underlying error
	MoveText   string   // The move text that caused the error
	FEN        string   // The position the move was tried in (if known)
	Candidates []string // Matching candidates for ambiguous requests
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}
	if len(e.Candidates) > 0 {
		parts = append(parts, fmt.Sprintf("candidates [%s]", strings.Join(e.Candidates, " ")))
	}
	if e.FEN != "" {
		parts = append(parts, fmt.Sprintf("position %q", e.FEN))
	}
	context := strings.Join(parts, ", ")
	if e.Err != nil {
		if context != "" {
			return fmt.Sprintf("%s: %v", context, e.Err)
		}
		return e.Err.Error()
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and
// errors.As() to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
