package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain ascii", input: "bonjour", want: "bonjour"},
		{name: "spaces become underscores", input: "le petit chat", want: "le_petit_chat"},
		{name: "diacritics folded", input: "déjà vu", want: "deja_vu"},
		{name: "oe ligature expanded", input: "cœur", want: "coeur"},
		{name: "ae ligature expanded", input: "ex æquo", want: "ex_aequo"},
		{name: "unsafe characters dropped", input: `qu'est-ce que c'est?`, want: "quest-ce_que_cest"},
		{name: "digits kept", input: "chapitre 12", want: "chapitre_12"},
		{name: "empty stays empty", input: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CleanFileName(tc.input))
		})
	}
}

func TestTrimArgs(t *testing.T) {
	t.Parallel()

	args := trimArgs("in.mp3", "out.mp3", 1500, 63250)
	assert.Equal(t, []string{
		"-y",
		"-i", "in.mp3",
		"-ss", "1.500",
		"-to", "63.250",
		"-c", "copy",
		"out.mp3",
	}, args)
}

func TestFormatMillis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.000", formatMillis(0))
	assert.Equal(t, "0.007", formatMillis(7))
	assert.Equal(t, "61.000", formatMillis(61000))
	assert.Equal(t, "3661.042", formatMillis(3661042))
}

func TestPrepareCopiesUntrimmedClip(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "Déjà Vu.mp3")
	require.NoError(t, os.WriteFile(srcPath, []byte("audio-bytes"), 0o644))

	audioDir := filepath.Join(t.TempDir(), "audio")
	p := NewProcessor("ffmpeg", audioDir)

	name, err := p.Prepare(context.Background(), srcPath, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Deja_Vu.mp3", name)

	data, err := os.ReadFile(filepath.Join(audioDir, name))
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestPrepareTrimFailsWithoutFFmpeg(t *testing.T) {
	t.Parallel()

	srcPath := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(srcPath, []byte("audio"), 0o644))

	p := NewProcessor("ffmpeg-binary-that-does-not-exist", t.TempDir())
	start, end := int64(0), int64(1000)

	_, err := p.Prepare(context.Background(), srcPath, &start, &end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg binary not found")
}

func TestDestFileName(t *testing.T) {
	t.Parallel()

	start, end := int64(500), int64(2500)
	assert.Equal(t, "clip_500-2500.mp3", destFileName("/tmp/clip.mp3", &start, &end))
	assert.Equal(t, "clip.mp3", destFileName("/tmp/clip.mp3", nil, nil))
	assert.Equal(t, "clip.mp3", destFileName("/tmp/???.mp3", nil, nil))
}
