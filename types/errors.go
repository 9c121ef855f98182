package types

import "errors"

// Failure taxonomy of the retrieval pipeline. Components wrap these with
// fmt.Errorf("%w: ...") so callers can classify with errors.Is. All four
// pipeline kinds are caught at the response-generator boundary and
// converted to the degraded chat response; none reach the route layer.
var (
	// ErrEmptyInput is returned when text handed to the embedder is empty.
	// Policy: embedding empty text fails, it never yields a zero vector,
	// because nearest-neighbor queries on a zero vector are degenerate.
	ErrEmptyInput = errors.New("empty embedding input")

	// ErrDuplicateID is returned when a document id already exists in an
	// index. During batch ingestion it is logged and skipped, not fatal.
	ErrDuplicateID = errors.New("document id already exists")

	// ErrIndexUnavailable marks a vector index that is unreachable or
	// whose persisted state cannot be read.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrLedgerUnavailable marks the external ledger store as unreachable.
	// The summarizer self-degrades on it instead of propagating.
	ErrLedgerUnavailable = errors.New("ledger store unavailable")

	// ErrCompletion marks a text-completion failure (timeout, quota,
	// empty candidate set).
	ErrCompletion = errors.New("completion failed")
)
