package voice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIVoice implements both voice boundaries against the OpenAI API:
// Whisper for transcription and the speech endpoint for synthesis.
type OpenAIVoice struct {
	client    *openai.Client
	sttModel  string
	ttsModel  string
	ttsVoice  string
	outputDir string
}

// NewOpenAIVoice creates the voice client. The API key is required and
// the output directory is created if it does not exist.
func NewOpenAIVoice(apiKey, sttModel, ttsModel, ttsVoice, outputDir string) (*OpenAIVoice, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("voice: missing API key")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio output directory: %w", err)
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &OpenAIVoice{
		client:    openai.NewClientWithConfig(config),
		sttModel:  sttModel,
		ttsModel:  ttsModel,
		ttsVoice:  ttsVoice,
		outputDir: outputDir,
	}, nil
}

// Transcribe sends the audio stream to the transcription model. The
// filename carries the format hint (e.g. "recording.wav").
func (v *OpenAIVoice) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := v.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    v.sttModel,
		Reader:   audio,
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}

// Synthesize renders the text as speech and writes it to a fresh MP3
// file in the output directory, returning the file path.
func (v *OpenAIVoice) Synthesize(ctx context.Context, text string) (string, error) {
	resp, err := v.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(v.ttsModel),
		Input: text,
		Voice: openai.SpeechVoice(v.ttsVoice),
	})
	if err != nil {
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	path := filepath.Join(v.outputDir, fmt.Sprintf("speech_%s.mp3", uuid.NewString()))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return path, nil
}

var (
	_ Transcriber = (*OpenAIVoice)(nil)
	_ Synthesizer = (*OpenAIVoice)(nil)
)
