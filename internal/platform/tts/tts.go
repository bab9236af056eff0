// Package tts synthesizes spoken audio for records submitted without a
// media clip, using the public translate endpoint.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mgirault/lexicard/internal/platform/media"
)

// fileNamePrefixLen bounds how much of the name hint ends up in the
// generated file name.
const fileNamePrefixLen = 20

// Synthesizer fetches synthesized speech over HTTP and stores it as an
// mp3 file in the audio directory.
type Synthesizer struct {
	endpoint string
	language string
	audioDir string
	client   *http.Client
}

// NewSynthesizer creates a Synthesizer for the given endpoint and
// language, writing files into audioDir.
func NewSynthesizer(endpoint, language, audioDir string) *Synthesizer {
	return &Synthesizer{
		endpoint: endpoint,
		language: language,
		audioDir: audioDir,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Synthesize fetches speech for the given text and returns the stored
// file's base name, derived from nameHint.
func (s *Synthesizer) Synthesize(ctx context.Context, text, nameHint string) (string, error) {
	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("creating audio directory: %w", err)
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", s.language)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building speech request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching speech: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech endpoint returned status %d", resp.StatusCode)
	}

	name := FileName(nameHint)
	out, err := os.Create(filepath.Join(s.audioDir, name))
	if err != nil {
		return "", fmt.Errorf("creating speech file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("writing speech file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("writing speech file: %w", err)
	}
	return name, nil
}

// FileName derives the mp3 file name from a cleaned prefix of the name
// hint, normally the first response.
func FileName(hint string) string {
	runes := []rune(hint)
	if len(runes) > fileNamePrefixLen {
		runes = runes[:fileNamePrefixLen]
	}
	stem := media.CleanFileName(string(runes))
	if stem == "" {
		stem = "speech"
	}
	return stem + ".mp3"
}
