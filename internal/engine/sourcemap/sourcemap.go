// Package sourcemap concatenates files and describes the result with a Source Map v3
// document that maps every generated line back to a line of its source file.
package sourcemap

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Syntax selects the comment style of an inline source map reference.
type Syntax uint8

const (
	// SyntaxCSS renders /*# sourceMappingURL=... */.
	SyntaxCSS Syntax = iota
	// SyntaxJS renders //# sourceMappingURL=....
	SyntaxJS
)

// Part is one file of a concatenation.
type Part struct {
	// Path is the source file location on disk.
	Path string
	// Original is the untransformed source text, embedded as sourcesContent.
	Original []byte
	// Output is the text written to the bundle. For untransformed parts it equals Original.
	Output []byte
}

// Map is a Source Map v3 document.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Concat joins the parts with newline separators into the file at output and returns
// the bundle and its map. Source paths in the map are relative to the directory of output.
//
// Generated line k of a part maps to line k of its original, clamped to the last
// original line. Transforms that keep line structure therefore map exactly; others map
// to the right file.
func Concat(output string, parts []Part) ([]byte, *Map) {
	var buf bytes.Buffer
	m := &Map{
		Version:        3,
		File:           filepath.Base(output),
		Sources:        make([]string, 0, len(parts)),
		SourcesContent: make([]string, 0, len(parts)),
		Names:          []string{},
	}

	enc := &mappingEncoder{}
	outDir := filepath.Dir(output)

	for i, part := range parts {
		if i > 0 {
			buf.WriteByte('\n')
		}

		m.Sources = append(m.Sources, relativeSource(outDir, part.Path))
		m.SourcesContent = append(m.SourcesContent, string(part.Original))

		text := strings.TrimSuffix(string(part.Output), "\n")
		buf.WriteString(text)

		lastOriginal := max(0, strings.Count(strings.TrimSuffix(string(part.Original), "\n"), "\n"))
		generated := strings.Count(text, "\n") + 1
		for line := range generated {
			enc.line(i, min(line, lastOriginal))
		}
	}
	if len(parts) > 0 {
		buf.WriteByte('\n')
	}

	m.Mappings = enc.String()
	return buf.Bytes(), m
}

// Inline renders m as a data URL comment in the given syntax, preceded by a newline.
func (m *Map) Inline(syntax Syntax) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode source map")
	}

	url := "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data)
	if syntax == SyntaxJS {
		return []byte("//# sourceMappingURL=" + url + "\n"), nil
	}
	return []byte("/*# sourceMappingURL=" + url + " */\n"), nil
}

// Append concatenates parts and, when withMap is set, appends the inline map comment.
func Append(output string, parts []Part, syntax Syntax, withMap bool) ([]byte, error) {
	bundle, m := Concat(output, parts)
	if !withMap {
		return bundle, nil
	}
	comment, err := m.Inline(syntax)
	if err != nil {
		return nil, err
	}
	return append(bundle, comment...), nil
}

func relativeSource(outDir, path string) string {
	rel, err := filepath.Rel(outDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// mappingEncoder writes one segment per generated line. Source index, line and column
// fields are deltas against the previous segment; the generated column resets per line.
type mappingEncoder struct {
	sb         strings.Builder
	lines      int
	prevSource int
	prevLine   int
}

func (e *mappingEncoder) line(source, line int) {
	if e.lines > 0 {
		e.sb.WriteByte(';')
	}
	e.lines++

	writeVLQ(&e.sb, 0)
	writeVLQ(&e.sb, source-e.prevSource)
	writeVLQ(&e.sb, line-e.prevLine)
	writeVLQ(&e.sb, 0)

	e.prevSource = source
	e.prevLine = line
}

func (e *mappingEncoder) String() string {
	return e.sb.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends the base64 VLQ encoding of v.
func writeVLQ(sb *strings.Builder, v int) {
	vlq := v << 1
	if v < 0 {
		vlq = (-v << 1) | 1
	}
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		sb.WriteByte(base64Digits[digit])
		if vlq == 0 {
			return
		}
	}
}
