package boxscore

import "errors"

// Failure taxonomy for the extraction pipeline. All of these are
// recoverable by the caller; the HTTP boundary maps them onto 4xx/5xx.
var (
	// ErrImageDecode is returned when the uploaded bytes do not decode as an image.
	ErrImageDecode = errors.New("unable to decode image")
	// ErrUsernameNotFound is returned when no line or token clears the
	// similarity threshold in either image variant.
	ErrUsernameNotFound = errors.New("username not found in image")
	// ErrStatsParse is returned when a row was located but fewer than 13
	// numeric fields resolved, or the points sanity check failed.
	ErrStatsParse = errors.New("unable to parse stats row")
	// ErrEngineUnavailable is returned when the tesseract binary cannot be located.
	ErrEngineUnavailable = errors.New("tesseract is not installed or it's not in your PATH")
)
