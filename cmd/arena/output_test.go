package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, "json")
	require.NoError(t, err)

	require.NoError(t, p.print(map[string]any{"wallet": "W", "count": 2}))
	assert.JSONEq(t, `{"wallet":"W","count":2}`, buf.String())
}

func TestPrinterYAMLUsesJSONTags(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, "YAML")
	require.NoError(t, err)

	require.NoError(t, p.print(struct {
		XPAmount json.Number `json:"xpAmount"`
	}{XPAmount: "12.5"}))
	assert.Equal(t, "xpAmount: 12.5\n", buf.String())
}

func TestPrinterRejectsUnknownFormat(t *testing.T) {
	_, err := newPrinter(nil, "table")
	require.Error(t, err)
}
