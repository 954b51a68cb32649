// internal/history/history.go
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrEmpty is returned by ReadAll when no commit has been recorded.
var ErrEmpty = errors.New("no commits yet")

const (
	commitPrefix = "commit "
	authorPrefix = "Author: "
)

// Entry is one commit as it appears in the log.
type Entry struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Message string `json:"message"`
}

// Log is the newest-first commit history kept in a single text file.
type Log struct {
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

// Format renders the block Record prepends.
func Format(id, author, message string) string {
	return fmt.Sprintf("%s%s\n%s%s\n%s\n\n", commitPrefix, id, authorPrefix, author, message)
}

// Record prepends an entry. The file is replaced through a rename so readers
// never observe a partial log.
func (l *Log) Record(id, author, message string) error {
	existing, err := l.read()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(l.path), "."+filepath.Base(l.path)+"-"+uuid.NewString())
	if err := os.WriteFile(tmp, []byte(Format(id, author, message)+existing), 0644); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing log: %w", err)
	}
	return nil
}

// ReadAll returns the log text verbatim.
func (l *Log) ReadAll() (string, error) {
	text, err := l.read()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Entries parses the log.
func (l *Log) Entries() ([]Entry, error) {
	text, err := l.read()
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

func (l *Log) read() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading log: %w", err)
	}
	return string(data), nil
}

// Parse scans log text into entries, newest first. A block starts at a
// "commit " line directly followed by an "Author: " line; everything up to
// the next block is the message.
func Parse(text string) []Entry {
	lines := strings.Split(text, "\n")

	var (
		entries []Entry
		current *Entry
		message []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Message = strings.Join(trimTrailingBlank(message), "\n")
		entries = append(entries, *current)
		current, message = nil, nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, commitPrefix) && i+1 < len(lines) && strings.HasPrefix(lines[i+1], authorPrefix) {
			flush()
			current = &Entry{
				ID:     strings.TrimPrefix(line, commitPrefix),
				Author: strings.TrimPrefix(lines[i+1], authorPrefix),
			}
			i++
			continue
		}
		if current != nil {
			message = append(message, line)
		}
	}
	flush()

	return entries
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}
