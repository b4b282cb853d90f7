package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghodss/yaml"
)

type format string

const (
	formatJSON format = "json"
	formatYAML format = "yaml"
)

type printer struct {
	w      io.Writer
	format format
}

func newPrinter(w io.Writer, raw string) (*printer, error) {
	if w == nil {
		w = os.Stdout
	}
	f := format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case formatJSON, formatYAML:
		return &printer{w: w, format: f}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", raw)
	}
}

func (p *printer) print(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if p.format == formatYAML {
		// ghodss/yaml goes through JSON so the json tags drive the keys.
		if data, err = yaml.JSONToYAML(data); err != nil {
			return err
		}
	} else {
		data = append(data, '\n')
	}
	_, err = p.w.Write(data)
	return err
}
