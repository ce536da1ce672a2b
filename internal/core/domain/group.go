package domain

import "go.trai.ch/zerr"

// AssetGroup names one of the five categories of source files.
// The names double as CLI task names.
type AssetGroup string

const (
	// GroupMarkup holds HTML pages with include directives.
	GroupMarkup AssetGroup = "html"
	// GroupStyles holds vendor and project stylesheets.
	GroupStyles AssetGroup = "styles"
	// GroupScripts holds vendor and project scripts.
	GroupScripts AssetGroup = "js"
	// GroupImages holds raster and vector images plus sprite sources.
	GroupImages AssetGroup = "images"
	// GroupMisc holds top-level passthrough files.
	GroupMisc AssetGroup = "misc"
)

// Groups lists every asset group in declaration order.
var Groups = []AssetGroup{GroupMarkup, GroupStyles, GroupScripts, GroupImages, GroupMisc}

// ParseGroup converts a name into an AssetGroup.
func ParseGroup(name string) (AssetGroup, error) {
	for _, g := range Groups {
		if string(g) == name {
			return g, nil
		}
	}
	return "", zerr.With(ErrUnknownGroup, "group", name)
}

// String returns the group name.
func (g AssetGroup) String() string {
	return string(g)
}
