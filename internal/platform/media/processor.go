// Package media prepares audio clips for stored records. User-supplied
// files are trimmed with ffmpeg when the submission carries timestamps,
// or copied into the audio directory untouched otherwise.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Processor wraps the external ffmpeg binary used to trim media clips.
type Processor struct {
	FFmpegBin string
	AudioDir  string
}

// NewProcessor creates a Processor writing prepared clips into audioDir.
func NewProcessor(ffmpegBin, audioDir string) *Processor {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	return &Processor{
		FFmpegBin: ffmpegBin,
		AudioDir:  audioDir,
	}
}

// Prepare places the clip at srcPath into the audio directory and
// returns the stored file's base name. When both timestamps are set the
// clip is trimmed to [startMs, endMs] with ffmpeg; otherwise the file
// is copied as-is.
func (p *Processor) Prepare(ctx context.Context, srcPath string, startMs, endMs *int64) (string, error) {
	if err := os.MkdirAll(p.AudioDir, 0o755); err != nil {
		return "", fmt.Errorf("creating audio directory: %w", err)
	}

	destName := destFileName(srcPath, startMs, endMs)
	destPath := filepath.Join(p.AudioDir, destName)

	if startMs != nil && endMs != nil {
		if err := p.trim(ctx, srcPath, destPath, *startMs, *endMs); err != nil {
			return "", err
		}
		return destName, nil
	}

	if err := copyFile(srcPath, destPath); err != nil {
		return "", fmt.Errorf("copying media file: %w", err)
	}
	return destName, nil
}

// trim re-encodes nothing: the clip is cut on stream copy to keep the
// operation fast.
func (p *Processor) trim(ctx context.Context, srcPath, destPath string, startMs, endMs int64) error {
	if _, err := exec.LookPath(p.FFmpegBin); err != nil {
		return fmt.Errorf("ffmpeg binary not found: %w", err)
	}

	output, err := runCommand(ctx, p.FFmpegBin, trimArgs(srcPath, destPath, startMs, endMs)...)
	if err != nil {
		return fmt.Errorf("running ffmpeg: %w (output: %s)", err, output)
	}
	return nil
}

// trimArgs builds the ffmpeg invocation cutting [startMs, endMs] out of
// srcPath without re-encoding.
func trimArgs(srcPath, destPath string, startMs, endMs int64) []string {
	return []string{
		"-y",
		"-i", srcPath,
		"-ss", formatMillis(startMs),
		"-to", formatMillis(endMs),
		"-c", "copy",
		destPath,
	}
}

// formatMillis renders a millisecond offset as fractional seconds the
// way ffmpeg expects.
func formatMillis(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

// destFileName derives the stored name from the source file, embedding
// the trim window so differently cut clips never collide.
func destFileName(srcPath string, startMs, endMs *int64) string {
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	stem := CleanFileName(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "clip"
	}
	if startMs != nil && endMs != nil {
		return fmt.Sprintf("%s_%d-%d%s", stem, *startMs, *endMs, ext)
	}
	return stem + ext
}

// runCommand executes an external binary and captures combined output.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	return output.String(), err
}

func copyFile(srcPath, destPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
