// =============================================================================
// batch.go - Template Printing from YAML Records
// =============================================================================
//
// A template is a ZPL program whose field data contains {key} placeholders,
// for example:
//
//	^XA
//	^FO20,20^FH_^FD{name}^FS
//	^FO20,60^FH_^FD{sku}^FS
//	^XZ
//
// The records file is a YAML list of mappings. Every record is filled
// before anything is sent, so one bad record prints nothing.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// loadRecords reads a YAML list of records.
func loadRecords(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	return records, nil
}

// fillTemplate renders one payload per record.
func fillTemplate(text string, records []map[string]any) ([][]byte, error) {
	tmpl, err := zplprotocol.NewTemplate(text)
	if err != nil {
		return nil, err
	}
	payloads := make([][]byte, 0, len(records))
	for i, r := range records {
		p, err := tmpl.Execute(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		payloads = append(payloads, []byte(p))
	}
	return payloads, nil
}

func cmdBatch(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("batch")
	recordsPath := fs.String("records", "", "YAML file with a list of records")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if *recordsPath == "" || fs.NArg() != 1 {
		return usageError("batch: need --records FILE and one template")
	}

	records, err := loadRecords(*recordsPath)
	if err != nil {
		return err
	}
	text, err := a.readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	payloads, err := fillTemplate(text, records)
	if err != nil {
		return err
	}
	if _, err := zplprotocol.SendAll(ctx, a.sender(""), payloads, false); err != nil {
		return err
	}
	a.log.Info("batch printed", "records", len(records), "printer", a.cfg.address(""))
	return nil
}
