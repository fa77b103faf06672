package vr

import (
	"sync"
	"time"

	fmath "github.com/chewxy/math32"
)

// HeadRotationProvider supplies the predicted head orientation for a frame.
type HeadRotationProvider interface {
	// Predict returns the orientation expected at frameTime+offset.
	Predict(frameTime time.Time, offset time.Duration) Orientation
	// ReceivingUpdates reports whether live tracking data is arriving.
	ReceivingUpdates() bool
	OnDock()
	OnUndock()
}

// StaticHeadRotation always predicts the orientation last set.
type StaticHeadRotation struct {
	mu          sync.Mutex
	orientation Orientation
	docked      bool
}

// NewStaticHeadRotation starts at o.
func NewStaticHeadRotation(o Orientation) *StaticHeadRotation {
	return &StaticHeadRotation{orientation: o.Normalize()}
}

// Set replaces the orientation.
func (s *StaticHeadRotation) Set(o Orientation) {
	s.mu.Lock()
	s.orientation = o.Normalize()
	s.mu.Unlock()
}

func (s *StaticHeadRotation) Predict(time.Time, time.Duration) Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

func (s *StaticHeadRotation) ReceivingUpdates() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docked
}

func (s *StaticHeadRotation) OnDock() {
	s.mu.Lock()
	s.docked = true
	s.mu.Unlock()
}

func (s *StaticHeadRotation) OnUndock() {
	s.mu.Lock()
	s.docked = false
	s.mu.Unlock()
}

type yawPitchSample struct {
	at         time.Time
	yaw, pitch float32
}

// maxPitch keeps the tracked head from flipping over the poles.
var maxPitch = fmath.Pi/2 - 0.01

// TrackedHeadRotation extrapolates yaw and pitch samples linearly. It stands
// in for a headset's sensor fusion when input comes from a mouse or a
// recorded trace.
type TrackedHeadRotation struct {
	mu       sync.Mutex
	last     yawPitchSample
	velocity [2]float32 // radians per second
	samples  int
	docked   bool
}

// NewTrackedHeadRotation returns a provider looking straight ahead.
func NewTrackedHeadRotation() *TrackedHeadRotation {
	return &TrackedHeadRotation{}
}

// AddSample records the head angles observed at time at.
func (t *TrackedHeadRotation) AddSample(at time.Time, yaw, pitch float32) {
	pitch = clampPitch(pitch)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.samples > 0 {
		dt := float32(at.Sub(t.last.at).Seconds())
		if dt > 0 {
			t.velocity = [2]float32{(yaw - t.last.yaw) / dt, (pitch - t.last.pitch) / dt}
		}
	}
	t.last = yawPitchSample{at: at, yaw: yaw, pitch: pitch}
	t.samples++
}

func (t *TrackedHeadRotation) Predict(frameTime time.Time, offset time.Duration) Orientation {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.samples == 0 {
		return IdentityOrientation()
	}
	ahead := float32(frameTime.Add(offset).Sub(t.last.at).Seconds())
	if ahead < 0 {
		ahead = 0
	}
	yaw := t.last.yaw + t.velocity[0]*ahead
	pitch := clampPitch(t.last.pitch + t.velocity[1]*ahead)
	return OrientationFromYawPitch(yaw, pitch)
}

func (t *TrackedHeadRotation) ReceivingUpdates() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.docked && t.samples > 0
}

func (t *TrackedHeadRotation) OnDock() {
	t.mu.Lock()
	t.docked = true
	t.mu.Unlock()
}

// OnUndock stops prediction from extrapolating stale motion.
func (t *TrackedHeadRotation) OnUndock() {
	t.mu.Lock()
	t.docked = false
	t.velocity = [2]float32{}
	t.mu.Unlock()
}

func clampPitch(p float32) float32 {
	return fmath.Max(-maxPitch, fmath.Min(maxPitch, p))
}
