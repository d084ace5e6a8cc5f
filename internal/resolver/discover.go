package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// scan walks the export folder, picks the transcript file and indexes
// the media files.
func (r *implResolver) scan() error {
	entries, err := os.ReadDir(r.exportDir)
	if err != nil {
		return fmt.Errorf("read export folder %s: %w", r.exportDir, err)
	}

	var txtFiles []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(r.exportDir, e.Name())
		if strings.ToLower(filepath.Ext(e.Name())) == ".txt" {
			txtFiles = append(txtFiles, path)
			continue
		}
		if model.KindForFilename(e.Name()) != model.KindUnknown {
			r.files[strings.ToLower(e.Name())] = path
		}
	}

	transcript, err := pickTranscript(txtFiles)
	if err != nil {
		return fmt.Errorf("export folder %s: %w", r.exportDir, err)
	}
	r.transcript = transcript

	return nil
}

// pickTranscript chooses the chat transcript among the folder's .txt
// files: prefer a name containing "chat", then sniff content for the
// export's message pattern, then fall back to the first file.
func pickTranscript(txtFiles []string) (string, error) {
	if len(txtFiles) == 0 {
		return "", fmt.Errorf("no transcript .txt file found")
	}

	for _, path := range txtFiles {
		if strings.Contains(strings.ToLower(filepath.Base(path)), "chat") {
			return path, nil
		}
	}

	for _, path := range txtFiles {
		sample, err := readSample(path, 1024)
		if err != nil {
			continue
		}
		if strings.Contains(sample, " - ") || strings.Contains(sample, "(file attached)") {
			return path, nil
		}
	}

	return txtFiles[0], nil
}

func readSample(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && read == 0 {
		return "", err
	}
	return string(buf[:read]), nil
}
