package core

import "errors"

// The failure taxonomy of the assembly pipeline. No component retries; every
// failure wraps one of these sentinels and propagates to the caller after
// workspace teardown.
var (
	// ErrInvalidInput indicates a malformed request, rejected before any
	// external call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSynthesis indicates that the speech service failed or rejected the
	// request; surfaced verbatim.
	ErrSynthesis = errors.New("speech synthesis failed")
	// ErrRender indicates that an image could not be fitted to the canvas;
	// fatal to the whole request.
	ErrRender = errors.New("frame rendering failed")
	// ErrEncode indicates that the external encoder failed; surfaced with the
	// engine diagnostics attached.
	ErrEncode = errors.New("video encoding failed")
)
