package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrIndexerNotConfigured indicates the selected indexer has no entry or no URL.
	ErrIndexerNotConfigured = errors.New("indexer not configured")

	// ErrAPIKeyMissing indicates the selected indexer has no API key.
	ErrAPIKeyMissing = errors.New("API key not set")

	// ErrInvalidID indicates an argument is not a positive integer ID.
	ErrInvalidID = errors.New("invalid ID")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrNotTorrentFile indicates an upload input without a .torrent extension.
	ErrNotTorrentFile = errors.New("not a .torrent file")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrInterrupted indicates a batch stopped early on Ctrl+C.
	ErrInterrupted = errors.New("interrupted")
)
