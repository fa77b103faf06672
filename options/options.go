package options

import (
	"errors"
	"flag"
	"fmt"
)

// ViewerOptions holds the command line of the viewer. Fields point at the
// values owned by the flag set they were registered on.
type ViewerOptions struct {
	Manifest   *string
	Help       *bool
	Width      *int
	Height     *int
	FPS        *int
	Duration   *float64
	Record     *bool
	Headless   *bool
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	IPD        *float64
	FOV        *float64
	Swapchain  *int
}

// RegisterFlags defines the viewer flags on fs.
func RegisterFlags(fs *flag.FlagSet) *ViewerOptions {
	return &ViewerOptions{
		Manifest:   fs.String("manifest", "scene.yaml", "Scene manifest (.yaml, .json or .toml)"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 1280, "Width of the window and of the recording"),
		Height:     fs.Int("height", 720, "Height of the window and of the recording"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		Record:     fs.Bool("record", false, "Render offscreen and record to -output"),
		Headless:   fs.Bool("headless", false, "Record on an EGL pbuffer instead of a hidden window (Linux)"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "h264", "Video codec for recording (h264 or hevc)"),
		IPD:        fs.Float64("ipd", 0.062, "Interpupillary distance in meters"),
		FOV:        fs.Float64("fov", 90, "Vertical field of view per eye in degrees"),
		Swapchain:  fs.Int("swapchain", 3, "Framebuffers per eye"),
	}
}

// Validate checks the parsed values.
func (o *ViewerOptions) Validate() error {
	if *o.Manifest == "" {
		return errors.New("a manifest is required")
	}
	if *o.Width < 2 || *o.Height < 1 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", *o.FPS)
	}
	if *o.Record && *o.Duration <= 0 {
		return fmt.Errorf("invalid duration %g", *o.Duration)
	}
	if *o.Headless && !*o.Record {
		return errors.New("-headless requires -record")
	}
	if *o.FOV <= 0 || *o.FOV >= 180 {
		return fmt.Errorf("invalid field of view %g", *o.FOV)
	}
	if *o.Swapchain <= 0 {
		return fmt.Errorf("invalid swapchain length %d", *o.Swapchain)
	}
	return nil
}

// EyeSize is the per-eye framebuffer size: half the output width each.
func (o *ViewerOptions) EyeSize() (int, int) {
	return *o.Width / 2, *o.Height
}

// TotalFrames is the number of frames a recording renders.
func (o *ViewerOptions) TotalFrames() int {
	return int(*o.Duration * float64(*o.FPS))
}
