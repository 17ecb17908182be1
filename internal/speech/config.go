package speech

import "strings"

// Default voice for TTS. The built-in story is Spanish.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "es-ES-ElviraNeural"

// DefaultRate slows speech down a little for learners. Passed straight to
// the SSML prosody element; empty means the voice's natural rate.
const DefaultRate = "-10%"

// Audio format returned by Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// voiceLocale returns the locale prefix of an Azure voice name
// ("es-ES-ElviraNeural" -> "es-ES"). Falls back to en-US.
func voiceLocale(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}
