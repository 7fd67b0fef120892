// Package export renders planner state in the formats users take out of
// dayplan: a full JSON dump, a YAML dump, a Markdown summary, and CSV tables
// per entity type.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/valter-silva-au/dayplan/internal/storage"
	"github.com/valter-silva-au/dayplan/pkg/models"
	"gopkg.in/yaml.v3"
)

// Format is an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml, markdown or csv)", s)
}

// Exporter writes a state snapshot in one format.
type Exporter interface {
	Export(w io.Writer, st models.State) error
}

// New returns the exporter for f. CSV exports need a table, see NewCSV.
func New(f Format) (Exporter, error) {
	switch f {
	case FormatJSON:
		return jsonExporter{}, nil
	case FormatYAML:
		return yamlExporter{}, nil
	case FormatMarkdown:
		return markdownExporter{}, nil
	case FormatCSV:
		return nil, fmt.Errorf("csv export needs a table, use NewCSV")
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

type jsonExporter struct{}

// Export writes the full document in the persisted layout so it can be
// imported again.
func (jsonExporter) Export(w io.Writer, st models.State) error {
	data, err := storage.EncodeState(&st)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing json export: %w", err)
	}
	return nil
}

type yamlExporter struct{}

// Export writes the full document as block-style YAML with the same keys
// and field order as the JSON layout.
func (yamlExporter) Export(w io.Writer, st models.State) error {
	data, err := storage.EncodeState(&st)
	if err != nil {
		return err
	}
	// JSON is valid YAML; decoding into a node keeps the key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("converting state to yaml: %w", err)
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("writing yaml export: %w", err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle && n.Tag == "!!str" {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
