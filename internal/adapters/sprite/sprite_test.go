package sprite_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/sprite"
	"go.trai.ch/kiln/internal/core/domain"
)

const (
	arrowSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M0 0L24 12"/></svg>`
	closeSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16px" height="16"><title>Close</title><path d="M1 1L15 15"/></svg>`
)

func symbols(t *testing.T, data []byte) map[string]*etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	require.NotNil(t, doc.Root())

	out := make(map[string]*etree.Element)
	for _, el := range doc.Root().SelectElements("symbol") {
		out[el.SelectAttrValue("id", "")] = el
	}
	return out
}

func TestIDFor(t *testing.T) {
	assert.Equal(t, "arrow", sprite.IDFor("src/img/sprites/svg/ui/arrow.svg"))
	assert.Equal(t, "icon.big", sprite.IDFor("icon.big.svg"))
}

func TestBuilder_Build(t *testing.T) {
	res, err := sprite.NewBuilder().Build([]sprite.Source{
		{ID: "close", Path: "svg/close.svg", Content: []byte(closeSVG)},
		{ID: "arrow", Path: "svg/arrow.svg", Content: []byte(arrowSVG)},
		{ID: "arrow", Path: "svg/legacy/arrow.svg", Content: []byte(closeSVG)},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"arrow", "close"}, res.Symbols)
	assert.Equal(t, []string{"svg/legacy/arrow.svg"}, res.Duplicates)

	syms := symbols(t, res.Content)
	require.Len(t, syms, 2)
	assert.Equal(t, "0 0 24 24", syms["arrow"].SelectAttrValue("viewBox", ""))
	assert.Equal(t, "M0 0L24 12", syms["arrow"].SelectElement("path").SelectAttrValue("d", ""))
	assert.Equal(t, "0 0 16 16", syms["close"].SelectAttrValue("viewBox", ""))
	assert.NotNil(t, syms["close"].SelectElement("title"))
}

func TestBuilder_Build_Minified(t *testing.T) {
	b := sprite.NewBuilder()
	sources := []sprite.Source{{ID: "arrow", Path: "arrow.svg", Content: []byte(arrowSVG)}}

	pretty, err := b.Build(sources, false)
	require.NoError(t, err)
	minified, err := b.Build(sources, true)
	require.NoError(t, err)

	assert.Less(t, len(minified.Content), len(pretty.Content))
	assert.Contains(t, string(minified.Content), `id="arrow"`)
	assert.NotContains(t, string(minified.Content), "\n  ")
}

func TestBuilder_Build_Empty(t *testing.T) {
	res, err := sprite.NewBuilder().Build(nil, false)
	require.NoError(t, err)
	assert.Empty(t, res.Symbols)
	assert.Empty(t, symbols(t, res.Content))
}

func TestBuilder_Build_InvalidSource(t *testing.T) {
	tests := map[string]string{
		"not xml": "<svg",
		"not svg": "<html></html>",
		"no root": "",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := sprite.NewBuilder().Build([]sprite.Source{{ID: "x", Path: "x.svg", Content: []byte(content)}}, false)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrInvalidSprite.Error())
		})
	}
}
