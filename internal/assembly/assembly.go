// Package assembly turns processed media results back into an ordered
// transcript. It substitutes description/transcription text into media
// messages, keeps original reference text for missing or failed items,
// and writes the enhanced transcript file.
package assembly

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// FailedPlaceholder marks media items no provider could process.
const FailedPlaceholder = "[media could not be processed]"

const lineTimeLayout = "2/1/2006 15:04"

// Substitution is the processed result for one media message, keyed by
// the message's ordinal.
type Substitution struct {
	Text   string
	Status model.OutcomeStatus
}

// Assemble returns a copy of messages in ordinal order with media
// reference text replaced by the processed results. Messages without a
// substitution pass through unchanged, so the output always has one
// entry per input message.
func Assemble(messages []model.Message, subs map[int]Substitution) []model.Message {
	out := make([]model.Message, len(messages))
	copy(out, messages)
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })

	for i := range out {
		msg := &out[i]
		if !msg.HasMedia() {
			continue
		}
		sub, ok := subs[msg.Ordinal]
		if !ok {
			continue
		}

		switch sub.Status {
		case model.OutcomeDescribed, model.OutcomeCached:
			msg.Text = substituteText(msg.Media.Kind, sub.Text)
		case model.OutcomeFailed, model.OutcomeOversize:
			// Keep the original reference so the reader knows which
			// file was skipped.
			msg.Text = strings.TrimSpace(msg.Text + " " + FailedPlaceholder)
		case model.OutcomeMissing:
			// Original reference text preserved verbatim.
		}
	}

	return out
}

func substituteText(kind model.MediaKind, text string) string {
	switch kind {
	case model.KindImage:
		return "This is an image: " + text
	case model.KindVideo:
		return "This is a video: " + text
	case model.KindAudio:
		return "Voice note: " + text
	default:
		return text
	}
}

// WriteFile writes the enhanced transcript into dir as
// enhanced_chat_<timestamp>.txt and returns the file's path.
func WriteFile(dir string, messages []model.Message, stats *model.Stats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("enhanced_chat_%s.txt", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create transcript: %w", err)
	}
	defer f.Close()

	if err := Render(f, messages, stats); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// Render writes the stats header followed by one line per message.
func Render(w io.Writer, messages []model.Message, stats *model.Stats) error {
	if stats != nil {
		header := fmt.Sprintf(
			"# Enhanced Chat Transcript\n"+
				"# Generated: %s\n"+
				"# Messages: %d | Media: %d | Described: %d | Cached: %d | Failed: %d | Missing: %d\n"+
				"# Estimated cost: $%.4f | Success rate: %.1f%%\n\n",
			time.Now().Format("2006-01-02 15:04:05"),
			stats.TotalMessages, stats.MediaMessages, stats.ProcessedMedia,
			stats.CachedMedia, stats.FailedMedia, stats.MissingMedia,
			stats.EstimatedCost, stats.SuccessRate(),
		)
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
	}

	for i := range messages {
		if _, err := io.WriteString(w, formatLine(&messages[i])); err != nil {
			return err
		}
	}
	return nil
}

func formatLine(msg *model.Message) string {
	var b strings.Builder
	if !msg.Timestamp.IsZero() {
		b.WriteString("[")
		b.WriteString(msg.Timestamp.Format(lineTimeLayout))
		b.WriteString("] ")
	}
	if msg.Sender != "" {
		b.WriteString(msg.Sender)
		b.WriteString(": ")
	}
	b.WriteString(msg.Text)
	b.WriteString("\n")
	return b.String()
}
