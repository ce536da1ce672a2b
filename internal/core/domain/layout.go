package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// ConfigFileName is the name of the optional layout file.
	ConfigFileName = "kiln.yaml"

	// DefaultAddr is the default listen address of the development server.
	DefaultAddr = "localhost:3000"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// GroupLayout declares where one asset group reads from and writes to.
// Glob patterns are slash separated and relative to the project root; a leading "!"
// marks an exclusion that applies to the whole list.
type GroupLayout struct {
	// Vendor globs are resolved before Sources so vendor files always come first.
	Vendor []string
	// Sources are the ordered source globs.
	Sources []string
	// Base is the directory relative paths are computed from. Empty means the static
	// prefix of each glob.
	Base string
	// Subdir is the output directory below the destination root.
	Subdir string
	// Concat is the concatenated output file name, relative to Subdir.
	Concat string
	// Watch globs select the change events that re-run the group.
	Watch []string
}

// Patterns returns the vendor globs followed by the source globs.
func (g GroupLayout) Patterns() []string {
	patterns := make([]string, 0, len(g.Vendor)+len(g.Sources))
	patterns = append(patterns, g.Vendor...)
	return append(patterns, g.Sources...)
}

// SpriteLayout declares the SVG sources combined into the symbol sprite.
type SpriteLayout struct {
	Sources []string
	// Output is the sprite file path relative to the destination root.
	Output string
}

// Layout is the static mapping from asset groups to source globs and destinations.
type Layout struct {
	SourceRoot string
	DevRoot    string
	ProdRoot   string

	Markup  GroupLayout
	Styles  GroupLayout
	Scripts GroupLayout
	Images  GroupLayout
	Misc    GroupLayout
	Sprites SpriteLayout
}

// DefaultLayout returns the conventional project layout.
func DefaultLayout() Layout {
	return Layout{
		SourceRoot: "src",
		DevRoot:    "dist",
		ProdRoot:   "prod",
		Markup: GroupLayout{
			Sources: []string{"src/*.html"},
			Base:    "src",
			Watch:   []string{"src/**/*.html"},
		},
		Styles: GroupLayout{
			Vendor:  []string{"src/styles/vendor/**/*.css"},
			Sources: []string{"src/styles/app.css"},
			Concat:  "styles.css",
			Watch:   []string{"src/styles/**/*.*"},
		},
		Scripts: GroupLayout{
			Vendor: []string{"src/js/vendor/**/*.js"},
			Sources: []string{
				"src/js/**/main.js",
				"src/js/**/*.*",
				"!src/js/vendor/**/jquery-*.js",
			},
			Concat: "js/main.js",
			Watch:  []string{"src/js/**/*.*"},
		},
		Images: GroupLayout{
			Sources: []string{"src/img/**/*.{jpg,jpeg,png,svg,gif}"},
			Base:    "src",
			Watch:   []string{"src/img/**/*.*"},
		},
		Misc: GroupLayout{
			Sources: []string{"src/*.*", "!src/*.html"},
			Base:    "src",
			Watch:   []string{"src/*.*", "!src/*.html"},
		},
		Sprites: SpriteLayout{
			Sources: []string{"src/img/sprites/svg/**/*.svg"},
			Output:  "img/icons.svg",
		},
	}
}

// Group returns the layout of the given group.
func (l Layout) Group(g AssetGroup) (GroupLayout, error) {
	switch g {
	case GroupMarkup:
		return l.Markup, nil
	case GroupStyles:
		return l.Styles, nil
	case GroupScripts:
		return l.Scripts, nil
	case GroupImages:
		return l.Images, nil
	case GroupMisc:
		return l.Misc, nil
	default:
		return GroupLayout{}, zerr.With(ErrUnknownGroup, "group", string(g))
	}
}

// Root returns the destination root selected by mode.
func (l Layout) Root(mode BuildMode) string {
	if mode.IsProduction() {
		return l.ProdRoot
	}
	return l.DevRoot
}

// Roots returns every destination root, in mode order.
func (l Layout) Roots() []string {
	return []string{l.DevRoot, l.ProdRoot}
}

// Validate checks that destinations are set and disjoint from the source tree.
func (l Layout) Validate() error {
	src := filepath.Clean(l.SourceRoot)
	for _, root := range l.Roots() {
		if strings.TrimSpace(root) == "" {
			return ErrEmptyDestination
		}
		dest := filepath.Clean(root)
		if within(dest, src) || within(src, dest) {
			return zerr.With(zerr.With(ErrOverlappingPaths, "source", src), "destination", dest)
		}
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	if dir == "." {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// GroupPlan is the concrete source and destination set of one group for one mode.
type GroupPlan struct {
	Group    AssetGroup
	Patterns []string
	Base     string
	DestDir  string
	// Output is the concatenated output path; empty for per-file groups.
	Output string
	Watch  []string
}

// Plan is the resolved path configuration for one BuildMode.
type Plan struct {
	Mode       BuildMode
	SourceRoot string
	Root       string
	// Roots lists every destination root; clean removes all of them.
	Roots  []string
	Groups map[AssetGroup]GroupPlan
	// SpriteSources and SpriteOutput describe the sprite sub-operation of the images group.
	SpriteSources []string
	SpriteOutput  string
}

// Resolve produces the plan for mode. The destination of every group is derived from
// mode and group only.
func (l Layout) Resolve(mode BuildMode) Plan {
	root := l.Root(mode)
	plan := Plan{
		Mode:          mode,
		SourceRoot:    l.SourceRoot,
		Root:          root,
		Roots:         l.Roots(),
		Groups:        make(map[AssetGroup]GroupPlan, len(Groups)),
		SpriteSources: append([]string(nil), l.Sprites.Sources...),
		SpriteOutput:  filepath.Join(root, filepath.FromSlash(l.Sprites.Output)),
	}

	for _, g := range Groups {
		gl, _ := l.Group(g)
		dest := filepath.Join(root, filepath.FromSlash(gl.Subdir))
		gp := GroupPlan{
			Group:    g,
			Patterns: gl.Patterns(),
			Base:     gl.Base,
			DestDir:  dest,
			Watch:    append([]string(nil), gl.Watch...),
		}
		if gl.Concat != "" {
			gp.Output = filepath.Join(dest, filepath.FromSlash(gl.Concat))
		}
		plan.Groups[g] = gp
	}

	return plan
}

// Under returns a copy of p with every destination path placed below dir.
// Source globs stay relative; resolvers interpret them against the same dir.
func (p Plan) Under(dir string) Plan {
	if dir == "" || dir == "." {
		return p
	}

	out := p
	out.Root = filepath.Join(dir, p.Root)
	out.Roots = make([]string, 0, len(p.Roots))
	for _, r := range p.Roots {
		out.Roots = append(out.Roots, filepath.Join(dir, r))
	}
	out.SpriteOutput = filepath.Join(dir, p.SpriteOutput)
	out.Groups = make(map[AssetGroup]GroupPlan, len(p.Groups))
	for g, gp := range p.Groups {
		gp.DestDir = filepath.Join(dir, gp.DestDir)
		if gp.Output != "" {
			gp.Output = filepath.Join(dir, gp.Output)
		}
		out.Groups[g] = gp
	}
	return out
}
