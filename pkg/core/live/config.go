package live

import "github.com/techadvisor/techadvisor/pkg/core/audio"

const (
	// DefaultModel is the realtime audio model.
	DefaultModel = "gemini-2.5-flash-native-audio-preview-09-2025"

	// DefaultVoice is the prebuilt voice used for synthesized replies.
	DefaultVoice = "Kore"

	// DefaultEndpoint is the bidirectional streaming websocket endpoint.
	DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	// DefaultFrameSize is the number of samples per captured frame.
	DefaultFrameSize = 4096
)

// defaultSystemInstruction keeps the voice persona aligned with the text
// assistant: a friendly Brazilian notebook specialist.
const defaultSystemInstruction = "Você é o TechAdvisor, um especialista em notebooks falando por voz. " +
	"Responda SEMPRE em Português do Brasil, de forma natural e conversacional. " +
	"Seja breve: respostas faladas devem ter poucas frases. " +
	"Ajude o usuário a escolher um notebook perguntando sobre uso, orçamento e preferências."

// SessionConfig carries the tunables of a voice session. The zero value
// is usable; Connect fills defaults in.
type SessionConfig struct {
	// Model is the realtime model identifier. DefaultModel when empty.
	Model string

	// Voice is the prebuilt voice name. DefaultVoice when empty.
	Voice string

	// SystemInstruction overrides the default voice persona when set.
	SystemInstruction string

	// Endpoint overrides the websocket endpoint, mainly for tests.
	Endpoint string

	// FrameSize is the capture frame length in samples. DefaultFrameSize
	// when zero.
	FrameSize int
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	if c.SystemInstruction == "" {
		c.SystemInstruction = defaultSystemInstruction
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.FrameSize <= 0 {
		c.FrameSize = DefaultFrameSize
	}
	return c
}

// CaptureSampleRate and PlaybackSampleRate re-export the audio package
// constants so callers wiring devices do not need a second import.
const (
	CaptureSampleRate  = audio.CaptureSampleRate
	PlaybackSampleRate = audio.PlaybackSampleRate
)
