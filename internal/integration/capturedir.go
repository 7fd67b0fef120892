package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Capture statuses stored in note frontmatter.
const (
	CaptureStatusPending   = "pending"
	CaptureStatusProcessed = "processed"
)

// ProcessedDirName is the subdirectory processed notes are moved into.
const ProcessedDirName = "processed"

// Capture is a note dropped into the capture folder by another tool.
type Capture struct {
	ID   string
	Path string
	Text string
	Tags []string
	Date string
}

// CaptureDir reads inbox notes from a drop folder. A note is a markdown or
// plain text file, optionally starting with YAML frontmatter.
type CaptureDir struct {
	dir          string
	processedDir string
}

// captureFrontmatter is the YAML frontmatter structure for capture notes.
type captureFrontmatter struct {
	ID          string   `yaml:"id,omitempty"`
	Subject     string   `yaml:"subject,omitempty"`
	Date        string   `yaml:"date,omitempty"`
	Status      string   `yaml:"status,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	ProcessedAt string   `yaml:"processed_at,omitempty"`
}

// NewCaptureDir creates the drop folder and its processed/ subdirectory.
func NewCaptureDir(dir string) (*CaptureDir, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("creating capture dir: path is empty")
	}
	processed := filepath.Join(dir, ProcessedDirName)
	if err := os.MkdirAll(processed, 0o755); err != nil {
		return nil, fmt.Errorf("creating capture directory %s: %w", processed, err)
	}
	return &CaptureDir{dir: dir, processedDir: processed}, nil
}

// Dir returns the folder notes are read from.
func (c *CaptureDir) Dir() string {
	return c.dir
}

// Pending returns the notes still waiting to be captured, ordered by file
// name. Empty and malformed notes are skipped.
func (c *CaptureDir) Pending() ([]Capture, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading capture directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var captures []Capture
	for _, entry := range entries {
		if entry.IsDir() || !isNoteFile(entry.Name()) {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		capture, status, err := readCapture(path)
		if err != nil || capture.Text == "" {
			continue
		}
		if status != "" && status != CaptureStatusPending {
			continue
		}
		captures = append(captures, capture)
	}
	return captures, nil
}

// MarkProcessed stamps the note as processed and moves it into processed/.
func (c *CaptureDir) MarkProcessed(capture Capture, now time.Time) error {
	data, err := os.ReadFile(capture.Path)
	if err != nil {
		return fmt.Errorf("reading capture %s: %w", capture.ID, err)
	}
	fm, body, err := splitNote(string(data))
	if err != nil {
		return fmt.Errorf("parsing capture %s: %w", capture.ID, err)
	}
	fm.Status = CaptureStatusProcessed
	fm.ProcessedAt = now.Format(time.RFC3339)

	content, err := renderNote(fm, body)
	if err != nil {
		return fmt.Errorf("rendering capture %s: %w", capture.ID, err)
	}
	dest := filepath.Join(c.processedDir, filepath.Base(capture.Path))
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing processed capture: %w", err)
	}
	if err := os.Remove(capture.Path); err != nil {
		return fmt.Errorf("removing captured note: %w", err)
	}
	return nil
}

func isNoteFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".txt"
}

// readCapture parses a note. The subject wins over the body; otherwise the
// first non-blank body line becomes the inbox text.
func readCapture(path string) (Capture, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Capture{}, "", fmt.Errorf("reading file %s: %w", path, err)
	}
	fm, body, err := splitNote(string(data))
	if err != nil {
		return Capture{}, "", fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	text := strings.TrimSpace(fm.Subject)
	if text == "" {
		text = firstLine(body)
	}
	id := fm.ID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Capture{ID: id, Path: path, Text: text, Tags: fm.Tags, Date: fm.Date}, strings.ToLower(fm.Status), nil
}

func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#-* "))
		if line != "" {
			return line
		}
	}
	return ""
}

// renderNote produces a markdown string with YAML frontmatter.
func renderNote(fm captureFrontmatter, body string) (string, error) {
	fmBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fmBytes)
	sb.WriteString("---\n\n")
	sb.WriteString(body)

	return sb.String(), nil
}

// splitNote separates optional YAML frontmatter, delimited by "---" lines,
// from the note body. A note without frontmatter is all body.
func splitNote(content string) (captureFrontmatter, string, error) {
	var fm captureFrontmatter
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(content, "---\n") {
		return fm, content, nil
	}

	rest := content[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		if strings.HasSuffix(rest, "\n---") {
			idx = len(rest) - 4
		} else {
			return fm, content, fmt.Errorf("no closing frontmatter delimiter found")
		}
	}

	fmStr := rest[:idx]
	body := ""
	if idx+5 <= len(rest) {
		body = strings.TrimLeft(rest[idx+5:], "\n")
	}

	if err := yaml.Unmarshal([]byte(fmStr), &fm); err != nil {
		return fm, body, fmt.Errorf("unmarshaling frontmatter: %w", err)
	}
	return fm, body, nil
}
