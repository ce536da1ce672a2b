package css

import (
	"bytes"
	"cmp"
	"errors"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

const remBase = 16

var minWidthPattern = regexp.MustCompile(`(?i)min-width\s*:\s*([0-9]*\.?[0-9]+)\s*(px|em|rem)?`)

type mediaBlock struct {
	query string
	body  bytes.Buffer
	order int
}

// PackMediaQueries merges top-level @media blocks with identical queries and moves them
// after all other rules. Blocks without a min-width keep their order of first appearance
// and come first; the rest follow by ascending min-width. Stylesheets without top-level
// media blocks are returned unchanged.
func PackMediaQueries(asset pipeline.Asset, _ domain.BuildMode) (pipeline.Asset, error) {
	rest, blocks, err := splitMedia(asset.Content)
	if err != nil {
		return asset, err
	}
	if len(blocks) == 0 {
		return asset, nil
	}

	sortBlocks(blocks)

	var out bytes.Buffer
	if trimmed := bytes.TrimRight(rest, " \t\r\n"); len(trimmed) > 0 {
		out.Write(trimmed)
		out.WriteByte('\n')
	}
	for _, b := range blocks {
		out.WriteString("@media ")
		out.WriteString(b.query)
		out.WriteString(" {\n")
		out.Write(bytes.TrimRight(b.body.Bytes(), " \t\r\n"))
		out.WriteString("\n}\n")
	}

	asset.Content = out.Bytes()
	return asset, nil
}

// splitMedia separates top-level @media blocks from the remaining stylesheet text.
func splitMedia(src []byte) ([]byte, []*mediaBlock, error) {
	lexer := css.NewLexer(parse.NewInputBytes(src))

	var rest bytes.Buffer
	var blocks []*mediaBlock
	byQuery := make(map[string]*mediaBlock)
	depth := 0

	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, nil, zerr.Wrap(err, "failed to tokenize stylesheet")
			}
			return rest.Bytes(), blocks, nil
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
		case css.AtKeywordToken:
			if depth == 0 && strings.EqualFold(string(data), "@media") {
				query, body, ok := readMediaBlock(lexer)
				if !ok {
					return nil, nil, zerr.New("unterminated @media block")
				}
				b, exists := byQuery[query]
				if !exists {
					b = &mediaBlock{query: query, order: len(blocks)}
					byQuery[query] = b
					blocks = append(blocks, b)
				} else {
					b.body.WriteByte('\n')
				}
				b.body.Write(bytes.Trim(body, " \t\r\n"))
				continue
			}
		}
		rest.Write(data)
	}
}

// readMediaBlock consumes the prelude and block of an @media rule whose keyword was
// just read. It returns the normalized query and the raw block content.
func readMediaBlock(lexer *css.Lexer) (string, []byte, bool) {
	var prelude, body bytes.Buffer

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			return "", nil, false
		}
		if tt == css.LeftBraceToken {
			break
		}
		if tt == css.CommentToken {
			continue
		}
		prelude.Write(data)
	}

	depth := 1
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return "", nil, false
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return normalizeQuery(prelude.String()), body.Bytes(), true
			}
		}
		body.Write(data)
	}
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func sortBlocks(blocks []*mediaBlock) {
	slices.SortStableFunc(blocks, func(a, b *mediaBlock) int {
		wa, okA := minWidth(a.query)
		wb, okB := minWidth(b.query)
		switch {
		case !okA && !okB:
			return cmp.Compare(a.order, b.order)
		case !okA:
			return -1
		case !okB:
			return 1
		default:
			return cmp.Or(cmp.Compare(wa, wb), cmp.Compare(a.order, b.order))
		}
	})
}

// minWidth extracts the min-width of a query in pixels.
func minWidth(query string) (float64, bool) {
	m := minWidthPattern.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if unit := strings.ToLower(m[2]); unit == "em" || unit == "rem" {
		v *= remBase
	}
	return v, true
}
