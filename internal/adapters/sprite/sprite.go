// Package sprite combines SVG files into a single symbol sprite document.
package sprite

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"

	mediaType = "image/svg+xml"
)

// copiedAttributes are the root attributes carried over to each symbol.
var copiedAttributes = []string{"viewBox", "preserveAspectRatio"}

// Source is one SVG file offered to the sprite.
type Source struct {
	// ID is the symbol identifier, usually the file name without extension.
	ID      string
	Path    string
	Content []byte
}

// Result is a built sprite.
type Result struct {
	Content []byte
	// Symbols lists the symbol ids in document order.
	Symbols []string
	// Duplicates lists the paths skipped because their id was already taken.
	Duplicates []string
}

// Builder assembles symbol sprites.
type Builder struct {
	minifier *minify.M
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	m := minify.New()
	m.AddFunc(mediaType, svg.Minify)
	return &Builder{minifier: m}
}

// IDFor derives the symbol id of an SVG file from its base name.
func IDFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Build combines sources into one symbol document. The first source of an id wins;
// later ones are reported as duplicates. Symbols are sorted by id. With minified set,
// the document is passed through an SVG minifier.
func (b *Builder) Build(sources []Source, minified bool) (Result, error) {
	var res Result
	seen := make(map[string]bool, len(sources))
	kept := make([]Source, 0, len(sources))

	for _, src := range sources {
		if seen[src.ID] {
			res.Duplicates = append(res.Duplicates, src.Path)
			continue
		}
		seen[src.ID] = true
		kept = append(kept, src)
	}

	slices.SortStableFunc(kept, func(a, b Source) int { return strings.Compare(a.ID, b.ID) })

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNS)
	root.CreateAttr("xmlns:xlink", xlinkNS)

	for _, src := range kept {
		symbol, err := toSymbol(src)
		if err != nil {
			return Result{}, err
		}
		root.AddChild(symbol)
		res.Symbols = append(res.Symbols, src.ID)
	}

	if !minified {
		doc.Indent(2)
	}

	data, err := doc.WriteToBytes()
	if err != nil {
		return Result{}, zerr.Wrap(err, "failed to render sprite")
	}

	if minified {
		data, err = b.minifier.Bytes(mediaType, data)
		if err != nil {
			return Result{}, zerr.Wrap(err, "failed to minify sprite")
		}
	}

	res.Content = data
	return res, nil
}

func toSymbol(src Source) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src.Content); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidSprite.Error()), "path", src.Path)
	}

	svgRoot := doc.Root()
	if svgRoot == nil || svgRoot.Tag != "svg" {
		return nil, zerr.With(domain.ErrInvalidSprite, "path", src.Path)
	}

	symbol := etree.NewElement("symbol")
	symbol.CreateAttr("id", src.ID)

	for _, key := range copiedAttributes {
		if attr := svgRoot.SelectAttr(key); attr != nil {
			symbol.CreateAttr(key, attr.Value)
		}
	}
	if symbol.SelectAttr("viewBox") == nil {
		if vb, ok := viewBoxFromSize(svgRoot); ok {
			symbol.CreateAttr("viewBox", vb)
		}
	}

	for _, child := range svgRoot.ChildElements() {
		symbol.AddChild(child.Copy())
	}

	return symbol, nil
}

// viewBoxFromSize derives "0 0 w h" from numeric width and height attributes.
func viewBoxFromSize(el *etree.Element) (string, bool) {
	w, okW := dimension(el.SelectAttrValue("width", ""))
	h, okH := dimension(el.SelectAttrValue("height", ""))
	if !okW || !okH {
		return "", false
	}
	return "0 0 " + formatFloat(w) + " " + formatFloat(h), true
}

func dimension(v string) (float64, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil && f > 0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
