// Package export flattens the base table and the session's overrides into
// one JSON document and delivers it to the user.
package export

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/courtside/rotations/internal/court"
)

// Resolver is the lookup the document is built from.
type Resolver interface {
	Resolve(rot court.Rotation, mode court.Mode) (court.PositionSet, error)
}

// Document is the exported table: rotation -> mode -> position set.
// It always holds all 24 entries.
type Document map[court.Rotation]map[court.Mode]court.PositionSet

// Build resolves every (rotation, mode) pair. Overrides shadow base entries;
// the derived set-ready formation is never exported. Store errors are
// collected and the affected entries fall back to the base table.
func Build(r Resolver) (Document, error) {
	doc := make(Document, len(court.Rotations))
	var errs []error

	for _, rot := range court.Rotations {
		doc[rot] = make(map[court.Mode]court.PositionSet, len(court.Modes))
		for _, mode := range court.Modes {
			set, err := r.Resolve(rot, mode)
			if err != nil {
				errs = append(errs, err)
			}
			doc[rot][mode] = set
		}
	}

	return doc, errors.Join(errs...)
}

// Len returns the number of position sets in the document.
func (d Document) Len() int {
	n := 0
	for _, modes := range d {
		n += len(modes)
	}
	return n
}

// MarshalJSON writes rotations, modes and roles in canonical order so the
// output is stable across runs.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	firstRot := true
	for _, rot := range court.Rotations {
		modes, ok := d[rot]
		if !ok {
			continue
		}
		if !firstRot {
			buf.WriteByte(',')
		}
		firstRot = false
		writeKey(&buf, string(rot))

		buf.WriteByte('{')
		firstMode := true
		for _, mode := range court.Modes {
			set, ok := modes[mode]
			if !ok {
				continue
			}
			if !firstMode {
				buf.WriteByte(',')
			}
			firstMode = false
			writeKey(&buf, string(mode))
			if err := writeSet(&buf, set); err != nil {
				return nil, fmt.Errorf("%s-%s: %w", rot, mode, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) {
	b, _ := json.Marshal(k)
	buf.Write(b)
	buf.WriteByte(':')
}

func writeSet(buf *bytes.Buffer, set court.PositionSet) error {
	buf.WriteByte('{')
	first := true
	for _, role := range court.Roles {
		c, ok := set[role]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeKey(buf, string(role))
		b, err := json.Marshal(c)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return nil
}

// JSON renders the document with two-space indentation.
func (d Document) JSON() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indenting export: %w", err)
	}
	return out.String(), nil
}

// Write encodes the document to w.
func Write(w io.Writer, d Document) error {
	s, err := d.JSON()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s+"\n"); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, gzipped when path ends in ".gz".
func WriteFile(path string, d Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".gz") {
		return Write(f, d)
	}

	gzWriter := gzip.NewWriter(f)
	if err := Write(gzWriter, d); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
