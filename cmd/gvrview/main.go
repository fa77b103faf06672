package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"cogentcore.org/core/base/errors"
	fmath "github.com/chewxy/math32"
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/gogvr/capture"
	"github.com/richinsley/gogvr/glfwcontext"
	"github.com/richinsley/gogvr/graphics"
	"github.com/richinsley/gogvr/graphics/glcore"
	"github.com/richinsley/gogvr/headless"
	"github.com/richinsley/gogvr/manifest"
	"github.com/richinsley/gogvr/objects"
	"github.com/richinsley/gogvr/options"
	"github.com/richinsley/gogvr/renderer"
	"github.com/richinsley/gogvr/vr"
)

type viewer struct {
	opts     *options.ViewerOptions
	context  graphics.Context
	window   *glfwcontext.Context
	renderer *renderer.Renderer
	activity *vr.Activity
	head     *vr.TrackedHeadRotation
	frame    int64
}

func runViewer(opts *options.ViewerOptions) error {
	m, err := manifest.Load(*opts.Manifest)
	if err != nil {
		return err
	}

	v := &viewer{opts: opts, head: vr.NewTrackedHeadRotation()}
	if *opts.Headless {
		ctx, err := headless.New(*opts.Width, *opts.Height)
		if err != nil {
			return fmt.Errorf("failed to create headless context: %w", err)
		}
		v.context = ctx
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return fmt.Errorf("failed to initialize glfw: %w", err)
		}
		defer glfwcontext.TerminateGraphics()

		// When recording, the window stays hidden.
		win, err := glfwcontext.New(opts, !*opts.Record)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		v.context, v.window = win, win
	}
	defer v.context.Shutdown()
	v.context.MakeCurrent()

	gl, err := glcore.Init()
	if err != nil {
		return err
	}
	log.Printf("OpenGL version: %s", gl.Version())

	s, err := m.NewShader(gl)
	if err != nil {
		return fmt.Errorf("failed to create shader: %w", err)
	}
	mat, err := m.NewMaterial(gl)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	mesh, err := m.NewMesh(gl)
	if err != nil {
		return fmt.Errorf("failed to create mesh: %w", err)
	}

	eyeWidth, eyeHeight := opts.EyeSize()
	rig := vr.NewCameraRig(
		vr.WithIPD(float32(*opts.IPD)),
		vr.WithFOV(float32(*opts.FOV)),
		vr.WithAspect(float32(eyeWidth)/float32(eyeHeight)),
	)

	v.renderer = renderer.New(gl, rig)
	item := renderer.NewItem(objects.NewRenderData(mesh), mat, s)
	item.Model = m.Model()
	v.renderer.Add(item)
	defer v.renderer.Destroy()

	activityOpts := []vr.ActivityOption{
		vr.WithHeadRotationProvider(v.head),
		vr.WithSwapChainLength(*opts.Swapchain),
	}
	if *opts.Record {
		activityOpts = append(activityOpts, vr.WithClock(v.recordClock))
	}
	v.activity = vr.NewActivity(gl, rig, v.renderer.DrawEye, activityOpts...)
	if err := v.activity.EnterVRMode(eyeWidth, eyeHeight); err != nil {
		return err
	}
	defer v.activity.LeaveVRMode()
	v.head.OnDock()

	if *opts.Record {
		return v.record()
	}
	v.interactive()
	return nil
}

// recordClock advances by exactly one frame per call so recordings do not
// depend on render speed.
func (v *viewer) recordClock() time.Time {
	return time.Unix(0, 0).Add(time.Duration(v.frame) * time.Second / time.Duration(*v.opts.FPS))
}

// interactive drives the head from the mouse: horizontal position is yaw,
// vertical position is pitch. Space toggles head tracking.
func (v *viewer) interactive() {
	log.Println("Starting interactive render loop...")
	v.window.RegisterKeyCallback(glfw.KeySpace, func() {
		if v.head.ReceivingUpdates() {
			v.head.OnUndock()
			log.Println("Head tracking paused")
		} else {
			v.head.OnDock()
			log.Println("Head tracking resumed")
		}
	})

	var lastErr string
	for !v.context.ShouldClose() {
		width, height := v.context.GetFramebufferSize()
		if width > 0 && height > 0 && v.head.ReceivingUpdates() {
			mouse := v.context.GetMouseInput()
			yaw := -(mouse[0]/float32(width) - 0.5) * 2 * fmath.Pi
			pitch := (mouse[1]/float32(height) - 0.5) * fmath.Pi
			v.head.AddSample(time.Now(), yaw, pitch)
		}

		err := v.activity.DrawFrame(context.Background())
		if err != nil && err.Error() != lastErr {
			errors.Log(err)
		}
		if err != nil {
			lastErr = err.Error()
		} else {
			lastErr = ""
		}

		v.renderer.Present(v.activity, width, height)
		v.context.EndFrame()
		v.frame++
	}
}

// record renders a fixed number of frames offscreen and pipes them to
// ffmpeg, sweeping the head once around during the recording.
func (v *viewer) record() error {
	opts := v.opts
	width, height := *opts.Width, *opts.Height
	rec, err := capture.NewRecorder(capture.Options{
		Width:      width,
		Height:     height,
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		FFMPEGPath: *opts.FFMPEGPath,
		Codec:      *opts.Codec,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	totalFrames := opts.TotalFrames()
	log.Printf("Recording %d frames to %s", totalFrames, *opts.OutputFile)
	for i := 0; i < totalFrames; i++ {
		v.frame = int64(i)
		yaw := 2 * fmath.Pi * float32(i) / float32(totalFrames)
		v.head.AddSample(v.recordClock(), yaw, 0)

		if err := v.activity.DrawFrame(ctx); err != nil {
			if ctx.Err() != nil {
				log.Printf("Recording interrupted at frame %d", i)
				break
			}
			errors.Log(err)
		}
		v.renderer.Present(v.activity, width, height)
		if err := rec.WriteFrame(v.renderer.ReadPixels(width, height)); err != nil {
			errors.Log(err)
			break
		}
	}

	if err := rec.Close(); err != nil {
		return err
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
	return nil
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Stereo shader scene viewer/recorder")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if err := runViewer(opts); err != nil {
		log.Fatalf("Viewer failed: %v", err)
	}
}
