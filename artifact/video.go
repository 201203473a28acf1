package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoFrames is returned when there are no frames to encode.
var ErrNoFrames = errors.New("artifact: no frames to encode")

// Video encodes the frames written by a FrameSink with ffmpeg.
type Video struct {
	// FFmpeg is the encoder executable. Empty means "ffmpeg" looked up in PATH.
	FFmpeg string
	// Length is the duration of the video in seconds. The frame rate is
	// the number of frames divided by Length.
	Length float64
	// DeleteFrames removes the frames after a successful encode.
	DeleteFrames bool
	Logger       zerolog.Logger
}

// CountFrames returns the number of frame files in dir.
func CountFrames(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "frame_*.png"))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Args returns the ffmpeg arguments that encode frames frames from dir to out.
func (v Video) Args(dir string, frames int, out string) ([]string, error) {
	if frames <= 0 {
		return nil, ErrNoFrames
	}
	if v.Length <= 0 {
		return nil, fmt.Errorf("artifact: video length must be positive, got %g", v.Length)
	}
	rate := strconv.FormatFloat(float64(frames)/v.Length, 'g', -1, 64)
	return []string{
		"-y",
		"-framerate", rate,
		"-i", filepath.Join(dir, "frame_%05d.png"),
		"-c:v", "libx264",
		"-profile:v", "baseline",
		"-level", "3.0",
		"-pix_fmt", "yuv420p",
		"-preset", "medium",
		"-crf", "23",
		out,
	}, nil
}

// Encode turns the frames in dir into the video out.
func (v Video) Encode(ctx context.Context, dir, out string) error {
	frames, err := CountFrames(dir)
	if err != nil {
		return err
	}
	args, err := v.Args(dir, frames, out)
	if err != nil {
		return err
	}
	bin := v.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("artifact: video encoder: %w", err)
	}
	v.Logger.Debug().Str("bin", path).Strs("args", args).Msg("encoding video")
	cmd := exec.CommandContext(ctx, path, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("artifact: %s failed: %w: %s", bin, err, lastLine(output))
	}
	v.Logger.Info().Str("video", out).Int("frames", frames).Msg("video written")
	if v.DeleteFrames {
		return deleteFrames(dir, frames)
	}
	return nil
}

func deleteFrames(dir string, frames int) error {
	var errs []error
	for i := 0; i < frames; i++ {
		err := os.Remove(filepath.Join(dir, FrameName(i)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func lastLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
