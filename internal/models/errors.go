package models

import "errors"

// Sentinel errors for the conversation core. Handlers map these to HTTP
// statuses with errors.Is; services wrap them with contextual detail.
var (
	// ErrInvalidInput rejects empty or malformed session ids, messages,
	// titles and filenames before any side effect takes place.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCorpus signals that a session has no documents. For chat this is
	// a soft, success-shaped result; for regeneration it is a hard
	// precondition failure.
	ErrNoCorpus = errors.New("session has no documents")

	// ErrNotFound reports an absent session, message or file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidIndex reports an out-of-range alternative selection.
	ErrInvalidIndex = errors.New("invalid alternative index")

	// ErrLimitExceeded reports that the per-message regeneration cap was hit.
	ErrLimitExceeded = errors.New("regeneration limit reached")

	// ErrTooLarge rejects uploads over the configured size cap.
	ErrTooLarge = errors.New("file exceeds upload size limit")

	// ErrUpstreamTimeout reports that the model call exceeded its time bound.
	// Never retried automatically; the user may resend.
	ErrUpstreamTimeout = errors.New("model call timed out")

	// ErrUpstreamError reports an embedding or model provider failure. The
	// detailed cause is logged only; callers see a generic message.
	ErrUpstreamError = errors.New("model provider error")
)
