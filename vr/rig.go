package vr

import (
	"sync"

	"cogentcore.org/core/math32"
)

// RigOption configures a CameraRig.
type RigOption func(*CameraRig)

// WithIPD sets the interpupillary distance in meters.
func WithIPD(ipd float32) RigOption {
	return func(r *CameraRig) { r.ipd = ipd }
}

// WithFOV sets the vertical field of view in degrees.
func WithFOV(degrees float32) RigOption {
	return func(r *CameraRig) { r.fovY = degrees }
}

// WithAspect sets the width/height ratio of one eye.
func WithAspect(aspect float32) RigOption {
	return func(r *CameraRig) { r.aspect = aspect }
}

// WithClipPlanes sets the near and far clip distances.
func WithClipPlanes(near, far float32) RigOption {
	return func(r *CameraRig) { r.near, r.far = near, far }
}

// CameraRig holds the head pose and lens parameters shared by both eyes.
type CameraRig struct {
	ipd    float32
	fovY   float32
	aspect float32
	near   float32
	far    float32

	mu       sync.RWMutex
	position math32.Vector3
	head     Orientation
}

// NewCameraRig returns a rig at the origin with a 90 degree square view per
// eye and a 62 mm IPD.
func NewCameraRig(opts ...RigOption) *CameraRig {
	r := &CameraRig{
		ipd:    0.062,
		fovY:   90,
		aspect: 1,
		near:   0.1,
		far:    1000,
		head:   IdentityOrientation(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *CameraRig) IPD() float32 { return r.ipd }

// SetPosition moves the rig in world space.
func (r *CameraRig) SetPosition(p math32.Vector3) {
	r.mu.Lock()
	r.position = p
	r.mu.Unlock()
}

func (r *CameraRig) Position() math32.Vector3 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.position
}

// SetHeadOrientation applies a predicted head pose.
func (r *CameraRig) SetHeadOrientation(o Orientation) {
	r.mu.Lock()
	r.head = o.Normalize()
	r.mu.Unlock()
}

func (r *CameraRig) HeadOrientation() Orientation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.head
}

// Projection is the same for both eyes.
func (r *CameraRig) Projection() math32.Matrix4 {
	return Perspective(r.fovY, r.aspect, r.near, r.far)
}

// View returns the world-to-eye matrix: the eye sits half the IPD to the
// side of the head along the head's own X axis.
func (r *CameraRig) View(eye Eye) math32.Matrix4 {
	r.mu.RLock()
	head, pos := r.head, r.position
	r.mu.RUnlock()

	eyeShift := Translation(-eye.sign()*r.ipd/2, 0, 0)
	rotation := head.Conjugate().Matrix()
	toHead := Translation(-pos.X, -pos.Y, -pos.Z)
	return MulMatrix4(eyeShift, MulMatrix4(rotation, toHead))
}

// ViewProjection returns Projection * View(eye).
func (r *CameraRig) ViewProjection(eye Eye) math32.Matrix4 {
	return MulMatrix4(r.Projection(), r.View(eye))
}
