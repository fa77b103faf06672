// Package vr drives stereo rendering: per-eye framebuffers, a camera rig
// with head-rotation prediction, and the per-frame eye loop.
package vr

import (
	"fmt"
	"time"
)

// Eye identifies one of the two views.
type Eye int

const (
	Left Eye = iota
	Right
)

// EyeCount is the number of views rendered per frame.
const EyeCount = 2

func (e Eye) String() string {
	switch e {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Eye(%d)", int(e))
	}
}

// IsRight reports whether e is the right eye.
func (e Eye) IsRight() bool { return e == Right }

// PredictionOffset is how far ahead of the frame start the head pose is
// predicted for this eye. The right eye is scanned out later.
func (e Eye) PredictionOffset() time.Duration {
	if e == Right {
		return 4 * time.Second / 60
	}
	return 3500 * time.Millisecond / 60
}

// sign is -1 for the left eye and +1 for the right eye.
func (e Eye) sign() float32 {
	if e == Right {
		return 1
	}
	return -1
}
