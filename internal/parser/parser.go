// Package parser turns raw WhatsApp chat export text into ordered messages.
package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

var (
	// Format: DD/MM/YYYY, HH:MM - Sender Name: Message content
	headerPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}),?\s+(\d{1,2}:\d{2})\s*-\s*(.*)$`)
	senderPattern = regexp.MustCompile(`^([^:]+?):\s*(.*)$`)

	// "IMG-0001.jpg (file attached)" and the common locale variants
	attachmentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s*\(file attached\)$`),
		regexp.MustCompile(`^(.+?)\s*\(Datei angehängt\)$`),
		regexp.MustCompile(`^(.+?)\s*\(archivo adjunto\)$`),
	}
)

const timestampLayout = "2/1/2006 15:04"

// Parse reads a transcript and returns its messages in original order.
// Parsing is a pure single pass: lines not matching the message header
// are appended to the previous message rather than dropped, and header
// lines without a sender become system messages.
func Parse(r io.Reader) ([]model.Message, error) {
	var messages []model.Message

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			// Continuation of a multi-line message. A malformed leading
			// line becomes a sender-less message so nothing is lost.
			if len(messages) == 0 {
				messages = append(messages, model.Message{
					Ordinal: 0,
					Text:    strings.TrimSpace(line),
				})
				continue
			}
			last := &messages[len(messages)-1]
			last.Text += "\n" + strings.TrimSpace(line)
			continue
		}

		sender, content := splitSender(m[3])

		msg := model.Message{
			Ordinal: len(messages),
			Sender:  sender,
			Text:    content,
		}

		if ts, err := time.Parse(timestampLayout, m[1]+" "+m[2]); err == nil {
			msg.Timestamp = ts
		}

		if sender != "" {
			if filename, ok := attachmentFilename(content); ok {
				msg.Media = &model.MediaReference{
					Filename:   filename,
					Kind:       model.KindForFilename(filename),
					Resolution: model.Unresolved,
				}
			}
		}

		messages = append(messages, msg)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// splitSender separates "Sender: content" from system messages that
// carry no sender (group notices, encryption banners).
func splitSender(rest string) (sender, content string) {
	m := senderPattern.FindStringSubmatch(rest)
	if m == nil {
		return "", strings.TrimSpace(rest)
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

func attachmentFilename(content string) (string, bool) {
	for _, p := range attachmentPatterns {
		if m := p.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
