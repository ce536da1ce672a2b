// Package markup expands @@include directives and @@variables in HTML sources.
//
// A directive has the form @@include('path') or @@include('path', {"key": "value"}).
// The path is resolved against the directory of the including file. The optional JSON
// object becomes the variable context of the included file, merged over the context of
// the includer. Variables are written @@key or @@key.nested; unknown variables are left
// untouched.
package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	prefix    = "@@"
	directive = prefix + "include("
)

// Context holds the variables visible to a file.
type Context map[string]any

// Includer expands include directives.
type Includer struct {
	readFile func(string) ([]byte, error)
}

// NewIncluder creates an Includer reading from the local file system.
func NewIncluder() *Includer {
	return &Includer{readFile: os.ReadFile}
}

// Expand resolves every directive in content, which was read from path.
func (in *Includer) Expand(path string, content []byte) ([]byte, error) {
	return in.expand(filepath.Clean(path), content, nil, nil)
}

func (in *Includer) expand(path string, content []byte, ctx Context, stack []string) ([]byte, error) {
	stack = append(stack, path)
	text := substitute(string(content), ctx)

	var out strings.Builder
	for {
		idx := strings.Index(text, directive)
		if idx < 0 {
			out.WriteString(text)
			return []byte(out.String()), nil
		}
		out.WriteString(text[:idx])

		target, local, consumed, err := parseDirective(text[idx+len(directive):])
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		text = text[idx+len(directive)+consumed:]

		included, err := in.include(filepath.Join(filepath.Dir(path), filepath.FromSlash(target)), merge(ctx, local), stack)
		if err != nil {
			return nil, err
		}
		out.Write(included)
	}
}

func (in *Includer) include(path string, ctx Context, stack []string) ([]byte, error) {
	path = filepath.Clean(path)
	if slices.Contains(stack, path) {
		cycle := append(slices.Clone(stack), path)
		return nil, zerr.With(domain.ErrIncludeCycle, "cycle", strings.Join(cycle, " -> "))
	}

	data, err := in.readFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read include"), "path", path)
	}
	return in.expand(path, data, ctx, stack)
}

// parseDirective parses the arguments following "@@include(" and returns the target,
// the optional context and the number of bytes consumed including the closing paren.
func parseDirective(s string) (string, Context, int, error) {
	pos := skipSpace(s, 0)
	if pos >= len(s) || (s[pos] != '\'' && s[pos] != '"') {
		return "", nil, 0, zerr.New("include path must be a quoted string")
	}

	quote := s[pos]
	end := strings.IndexByte(s[pos+1:], quote)
	if end < 0 {
		return "", nil, 0, zerr.New("unterminated include path")
	}
	target := s[pos+1 : pos+1+end]
	pos = skipSpace(s, pos+end+2)

	var ctx Context
	if pos < len(s) && s[pos] == ',' {
		pos = skipSpace(s, pos+1)
		dec := json.NewDecoder(strings.NewReader(s[pos:]))
		dec.UseNumber()
		if err := dec.Decode(&ctx); err != nil {
			return "", nil, 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidIncludeContext.Error()), "include", target)
		}
		pos = skipSpace(s, pos+int(dec.InputOffset()))
	}

	if pos >= len(s) || s[pos] != ')' {
		return "", nil, 0, zerr.With(zerr.New("unterminated include directive"), "include", target)
	}
	return target, ctx, pos + 1, nil
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && strings.IndexByte(" \t\r\n\f\v", s[pos]) >= 0 {
		pos++
	}
	return pos
}

func merge(parent, local Context) Context {
	if len(parent) == 0 {
		return local
	}
	out := make(Context, len(parent)+len(local))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range local {
		out[k] = v
	}
	return out
}

// substitute replaces @@name and @@name.path references that resolve in ctx.
func substitute(text string, ctx Context) string {
	if len(ctx) == 0 || !strings.Contains(text, prefix) {
		return text
	}

	var out strings.Builder
	for {
		idx := strings.Index(text, prefix)
		if idx < 0 {
			out.WriteString(text)
			return out.String()
		}
		out.WriteString(text[:idx])
		rest := text[idx+len(prefix):]

		name := identifier(rest)
		value, ok := lookup(ctx, name)
		if name == "" || !ok {
			out.WriteString(prefix)
			text = rest
			continue
		}

		out.WriteString(value)
		text = rest[len(name):]
	}
}

// identifier returns the longest variable reference at the start of s. References are
// made of ASCII letters, digits, underscores and dots; a trailing dot is not part of
// the reference.
func identifier(s string) string {
	end := 0
	for end < len(s) && isIdentByte(s[end], end == 0) {
		end++
	}
	return strings.TrimRight(s[:end], ".")
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_' || c == '.':
		return true
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}

func lookup(ctx Context, name string) (string, bool) {
	var current any = map[string]any(ctx)
	for _, key := range strings.Split(name, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		if current, ok = m[key]; !ok {
			return "", false
		}
	}
	return format(current), true
}

func format(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case nil:
		return ""
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	default:
		return fmt.Sprint(val)
	}
}
