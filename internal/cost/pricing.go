package cost

import "github.com/nguyentantai21042004/chat-notes/internal/model"

// unitPrice is the cost of one invocation: a flat per-item price for
// vision calls, a per-minute price for transcription.
type unitPrice struct {
	PerItem   float64
	PerMinute float64
}

// defaultPricing maps provider/capability pairs to their unit costs.
// Vision prices follow the public per-image estimates; audio is billed
// per minute of speech.
var defaultPricing = map[string]map[string]unitPrice{
	"gemini-vision": {
		"describe-image": {PerItem: 0.0025},
		"describe-video": {PerItem: 0.005},
	},
	"openai-vision": {
		"describe-image": {PerItem: 0.01},
	},
	"openai-whisper": {
		"transcribe-audio": {PerMinute: 0.006},
	},
	"gemini-audio": {
		"transcribe-audio": {PerMinute: 0.002},
	},
}

// Voice notes are encoded around 32kbps, which puts one minute of audio
// at roughly 240kB. Billing is floored at 0.1 minutes per item.
const (
	bytesPerMinute   = 32_000 / 8 * 60
	minBilledMinutes = 0.1
)

// Estimate returns the cost of one successful invocation for the given
// provider, capability and media item. Unknown pairs cost zero.
func Estimate(provider, capability string, media *model.ResolvedMedia) float64 {
	price, ok := defaultPricing[provider][capability]
	if !ok {
		return 0
	}
	if price.PerItem > 0 {
		return price.PerItem
	}

	minutes := float64(media.SizeBytes) / bytesPerMinute
	if minutes < minBilledMinutes {
		minutes = minBilledMinutes
	}
	return minutes * price.PerMinute
}
