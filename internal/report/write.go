package report

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// WriteFile persists the report to path in the given format (text, json, or
// yaml). The write is atomic: readers never observe a partial report.
// rendered is the pre-rendered text used for the text format.
func WriteFile(path, format string, rep *core.Report, rendered string) error {
	var data []byte
	switch format {
	case "json":
		var err error
		data, err = json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		data = append(data, '\n')
	case "yaml":
		var err error
		data, err = yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
	case "", "text":
		data = []byte(rendered)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}

// CopyToClipboard puts the rendered report on the system clipboard.
func CopyToClipboard(rendered string) error {
	return clipboard.WriteAll(rendered)
}
