// Package session stores the per-session playback resume marker: a single
// scalar holding the last playback offset in seconds. The marker lives for
// the duration of the viewing session only.
package session

import "errors"

var ErrResumePositionNotFound = errors.New("resume position not found")

// ResumeKey is the storage key the browser front end historically used for
// the marker; kept for wire compatibility with existing surfaces.
const ResumeKey = "videoPosition"
