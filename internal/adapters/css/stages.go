// Package css provides the stylesheet pipeline stages: import flattening, syntax
// lowering for the configured browsers, media query packing and minification.
package css

import (
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Stage names.
const (
	StageImport = "import"
	StageCompat = "compat"
	StagePack   = "mqpack"
	StageMinify = "minify"
)

// DefaultEngines are the browsers lowered syntax and vendor prefixes target.
var DefaultEngines = []api.Engine{
	{Name: api.EngineChrome, Version: "80"},
	{Name: api.EngineEdge, Version: "80"},
	{Name: api.EngineFirefox, Version: "78"},
	{Name: api.EngineSafari, Version: "13"},
	{Name: api.EngineIOS, Version: "13"},
}

// externalAssets are url() references left untouched while flattening imports.
// Patterns are matched against resolved paths too, so none of them may match a
// stylesheet.
var externalAssets = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.webp", "*.avif",
	"*.woff", "*.woff2", "*.ttf", "*.otf", "*.eot",
}

// Pipeline returns the stylesheet pipeline: import, compat and mqpack in every mode,
// minify in production only.
func Pipeline(engines []api.Engine) *pipeline.Pipeline {
	if len(engines) == 0 {
		engines = DefaultEngines
	}
	return pipeline.New(
		pipeline.Stage{Name: StageImport, When: pipeline.Always, Apply: Import},
		pipeline.Stage{Name: StageCompat, When: pipeline.Always, Apply: Compat(engines)},
		pipeline.Stage{Name: StagePack, When: pipeline.Always, Apply: PackMediaQueries},
		pipeline.Stage{Name: StageMinify, When: pipeline.ProductionOnly, Apply: Minify(engines)},
	)
}

// Import inlines @import rules, resolved relative to the asset's directory.
func Import(asset pipeline.Asset, _ domain.BuildMode) (pipeline.Asset, error) {
	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(asset.Content),
			ResolveDir: filepath.Dir(asset.Path),
			Sourcefile: asset.Path,
			Loader:     api.LoaderCSS,
		},
		Bundle:   true,
		Write:    false,
		External: externalAssets,
		LogLevel: api.LogLevelSilent,
		Charset:  api.CharsetUTF8,
	})
	if err := messagesError(result.Errors); err != nil {
		return asset, err
	}
	if len(result.OutputFiles) == 0 {
		return asset, zerr.New("import produced no output")
	}

	asset.Content = result.OutputFiles[0].Contents
	return asset, nil
}

// Compat lowers modern syntax and adds the vendor prefixes engines need.
func Compat(engines []api.Engine) pipeline.Transform {
	return func(asset pipeline.Asset, _ domain.BuildMode) (pipeline.Asset, error) {
		return transform(asset, api.TransformOptions{
			Loader:  api.LoaderCSS,
			Engines: engines,
			Charset: api.CharsetUTF8,
		})
	}
}

// Minify removes whitespace and redundant syntax, including duplicate rules. Vendor
// prefixes required by engines are kept.
func Minify(engines []api.Engine) pipeline.Transform {
	return func(asset pipeline.Asset, _ domain.BuildMode) (pipeline.Asset, error) {
		return transform(asset, api.TransformOptions{
			Loader:           api.LoaderCSS,
			Engines:          engines,
			MinifyWhitespace: true,
			MinifySyntax:     true,
			Charset:          api.CharsetUTF8,
			LegalComments:    api.LegalCommentsNone,
		})
	}
}

func transform(asset pipeline.Asset, opts api.TransformOptions) (pipeline.Asset, error) {
	opts.Sourcefile = asset.Path
	opts.LogLevel = api.LogLevelSilent

	result := api.Transform(string(asset.Content), opts)
	if err := messagesError(result.Errors); err != nil {
		return asset, err
	}

	asset.Content = result.Code
	return asset, nil
}

// messagesError converts esbuild diagnostics into one error carrying the first location.
func messagesError(msgs []api.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	err := zerr.New(strings.Join(texts, "\n"))

	if loc := msgs[0].Location; loc != nil {
		err = zerr.With(err, "file", loc.File)
		err = zerr.With(err, "line", loc.Line)
		err = zerr.With(err, "column", loc.Column)
	}
	return err
}
