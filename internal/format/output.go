// Package format renders command results as JSON, EDN or a terminal table.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON  = "json"
	EDN   = "edn"
	Table = "table"
)

// Tabular is implemented by results that have a table rendering.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Valid reports whether name is a known output format ("" means json).
func Valid(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", JSON, EDN, Table:
		return true
	}
	return false
}

// Write writes v in the requested format.
//
// Table output needs v to implement Tabular; anything else falls back to JSON so scripted
// callers never get a half-rendered table.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Table:
		t, ok := v.(Tabular)
		if !ok {
			return WriteJSON(w, v, pretty)
		}
		_, err := fmt.Fprintln(w, RenderTable(t.TableHeader(), t.TableRows()))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
