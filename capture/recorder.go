// Package capture encodes rendered frames to a video file by piping raw
// RGBA pixels into an ffmpeg process.
package capture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrClosed is returned by WriteFrame after Close.
var ErrClosed = errors.New("recorder is closed")

// Options configure a Recorder.
type Options struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	// FFMPEGPath overrides the ffmpeg executable found on PATH.
	FFMPEGPath string
	// Codec is h264 (the default) or hevc.
	Codec   string
	Bitrate string
	// QueueLength bounds the frames waiting for the encoder. Default 3.
	QueueLength int
	Logger      *slog.Logger
}

func (o *Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid capture size %dx%d", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("invalid capture frame rate %d", o.FPS)
	}
	if o.OutputFile == "" {
		return errors.New("no capture output file")
	}
	switch o.Codec {
	case "", "h264", "hevc":
	default:
		return fmt.Errorf("unsupported codec %q", o.Codec)
	}
	return nil
}

// frameSize is the byte length of one RGBA frame.
func (o *Options) frameSize() int { return o.Width * o.Height * 4 }

func (o *Options) inputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", o.Width, o.Height),
		"r":       o.FPS,
	}
}

func (o *Options) outputArgs() ffmpeg.KwArgs {
	bitrate := o.Bitrate
	if bitrate == "" {
		bitrate = "25M"
	}
	// GL rows start at the bottom
	args := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     bitrate,
	}
	if o.Codec == "hevc" {
		args["c:v"] = "libx265"
		if strings.EqualFold(filepath.Ext(o.OutputFile), ".mp4") {
			args["tag:v"] = "hvc1"
		}
	} else {
		args["c:v"] = "libx264"
	}
	return args
}

// command builds the ffmpeg invocation reading frames from r.
func (o *Options) command(r io.Reader) *ffmpeg.Stream {
	cmd := ffmpeg.Input("pipe:", o.inputArgs()).
		Output(o.OutputFile, o.outputArgs()).
		OverWriteOutput().WithInput(r).ErrorToStdOut()
	if o.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(o.FFMPEGPath)
	}
	return cmd
}

// Recorder feeds frames to the encoder from a writer goroutine, so the render
// loop only blocks when the queue is full.
type Recorder struct {
	opts   Options
	logger *slog.Logger

	frames   chan []byte
	done     chan error
	finished chan struct{}

	// sendMu orders sends on frames against closing it.
	sendMu sync.Mutex

	mu       sync.Mutex
	closed   bool
	writeErr error
	count    int64

	closeErr error // written once before finished is closed
}

// NewRecorder starts ffmpeg and returns a recorder ready for frames.
func NewRecorder(opts Options) (*Recorder, error) {
	return newRecorder(opts, func(r io.Reader) error {
		return opts.command(r).Run()
	})
}

func newRecorder(opts Options, run func(io.Reader) error) (*Recorder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.QueueLength <= 0 {
		opts.QueueLength = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := &Recorder{
		opts:     opts,
		logger:   logger.With("output", opts.OutputFile),
		frames:   make(chan []byte, opts.QueueLength),
		done:     make(chan error, 1),
		finished: make(chan struct{}),
	}

	pipeReader, pipeWriter := io.Pipe()
	errc := make(chan error, 1)
	go func() {
		err := run(pipeReader)
		// unblock the writer if the encoder exits early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	go rec.writeFrames(pipeWriter, errc)

	rec.logger.Info("recording started", "width", opts.Width, "height", opts.Height, "fps", opts.FPS)
	return rec, nil
}

// writeFrames is the consumer side: it drains frames into the pipe until the
// channel is closed, then waits for the encoder.
func (rec *Recorder) writeFrames(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for pixels := range rec.frames {
		if writeErr != nil {
			continue
		}
		if _, err := w.Write(pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame to ffmpeg: %w", err)
			rec.mu.Lock()
			rec.writeErr = writeErr
			rec.mu.Unlock()
		}
	}
	w.Close()
	runErr := <-errc
	if runErr != nil {
		runErr = fmt.Errorf("ffmpeg failed: %w", runErr)
	}
	rec.done <- errors.Join(writeErr, runErr)
}

// WriteFrame queues one RGBA frame, bottom row first. The recorder takes
// ownership of pixels.
func (rec *Recorder) WriteFrame(pixels []byte) error {
	if len(pixels) != rec.opts.frameSize() {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), rec.opts.frameSize())
	}
	rec.sendMu.Lock()
	defer rec.sendMu.Unlock()

	rec.mu.Lock()
	if rec.closed {
		rec.mu.Unlock()
		return ErrClosed
	}
	if rec.writeErr != nil {
		err := rec.writeErr
		rec.mu.Unlock()
		return err
	}
	rec.count++
	rec.mu.Unlock()

	rec.frames <- pixels
	return nil
}

// Frames counts the frames accepted so far.
func (rec *Recorder) Frames() int64 {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.count
}

// Close flushes queued frames, closes the pipe and waits for ffmpeg to
// finish. Later calls return the first result.
func (rec *Recorder) Close() error {
	rec.sendMu.Lock()
	rec.mu.Lock()
	if rec.closed {
		rec.mu.Unlock()
		rec.sendMu.Unlock()
		<-rec.finished
		return rec.closeErr
	}
	rec.closed = true
	rec.mu.Unlock()
	close(rec.frames)
	rec.sendMu.Unlock()

	err := <-rec.done
	rec.closeErr = err
	close(rec.finished)
	if err != nil {
		rec.logger.Error("recording failed", "error", err)
	} else {
		rec.logger.Info("recording finished", "frames", rec.Frames())
	}
	return err
}
