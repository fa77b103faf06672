package vr

import (
	"testing"

	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/internal/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEyeFramebufferCreate(t *testing.T) {
	gl := gltest.New()
	fb := NewEyeFramebuffer(gl)
	require.NoError(t, fb.Create(640, 480, 3))

	assert.Equal(t, 3, fb.Length())
	assert.Equal(t, 3, gl.Count("GenTexture"))
	assert.Equal(t, 3, gl.Count("GenRenderbuffer"))
	assert.Equal(t, 3, gl.Count("GenFramebuffer"))
	assert.Equal(t, 3, gl.Count("CheckFramebufferStatus"))

	w, h := fb.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	storage := gl.Named("RenderbufferStorage")
	require.Len(t, storage, 3)
	assert.Equal(t, []any{uint32(graphics.Renderbuffer), uint32(graphics.DepthComponent24), int32(640), int32(480)}, storage[0].Args)

	images := gl.Named("TexImage2D")
	require.Len(t, images, 3)
	assert.Equal(t, 0, images[0].Args[len(images[0].Args)-1], "color storage is allocated without pixels")
}

func TestEyeFramebufferCreateRejectsBadArguments(t *testing.T) {
	gl := gltest.New()
	fb := NewEyeFramebuffer(gl)
	assert.Error(t, fb.Create(0, 10, 1))
	assert.Error(t, fb.Create(10, 10, 0))
	assert.Empty(t, gl.Calls())
}

func TestEyeFramebufferIncomplete(t *testing.T) {
	gl := gltest.New()
	gl.FramebufferStatus = graphics.FramebufferIncompleteAttachment
	fb := NewEyeFramebuffer(gl)

	err := fb.Create(64, 64, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT")
	assert.Equal(t, 0, fb.Length())
	assert.Equal(t, 1, gl.Count("DeleteFramebuffer"))
	assert.Equal(t, 1, gl.Count("DeleteRenderbuffer"))
	assert.Equal(t, 1, gl.Count("DeleteTexture"))
}

func TestEyeFramebufferSwapChain(t *testing.T) {
	gl := gltest.New()
	fb := NewEyeFramebuffer(gl)
	require.NoError(t, fb.Create(32, 16, 2))
	fbos := gl.Named("GenFramebuffer")
	first, second := fbos[0].Args[0].(uint32), fbos[1].Args[0].(uint32)

	assert.Zero(t, fb.SubmittedFramebuffer())
	assert.Zero(t, fb.SubmittedColorTexture())

	gl.Reset()
	fb.Bind()
	assert.Equal(t, []string{"BindFramebuffer", "Viewport", "Scissor"}, gl.Names())
	assert.Equal(t, []any{uint32(graphics.Framebuffer), first}, gl.Calls()[0].Args)
	assert.Equal(t, []any{int32(0), int32(0), int32(32), int32(16)}, gl.Calls()[1].Args)

	fb.Advance()
	assert.Equal(t, 1, fb.Index())
	assert.Equal(t, first, fb.SubmittedFramebuffer())

	fb.Advance()
	assert.Equal(t, 0, fb.Index())
	assert.Equal(t, second, fb.SubmittedFramebuffer())
	assert.NotZero(t, fb.SubmittedColorTexture())
	assert.NotZero(t, fb.ColorTexture())

	fb.Destroy()
	assert.Equal(t, 0, fb.Length())
	assert.Zero(t, fb.SubmittedFramebuffer())
}
