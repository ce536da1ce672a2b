package config

// Kilnfile represents the structure of the kiln.yaml layout file.
// Every field is optional; omitted fields keep their default.
type Kilnfile struct {
	Version string              `yaml:"version"`
	Roots   RootsDTO            `yaml:"roots"`
	Groups  map[string]GroupDTO `yaml:"groups"`
	Sprites *SpritesDTO         `yaml:"sprites"`
}

// RootsDTO overrides the source and destination roots.
type RootsDTO struct {
	Source string `yaml:"source"`
	Dev    string `yaml:"dev"`
	Prod   string `yaml:"prod"`
}

// GroupDTO overrides the layout of one asset group.
// A nil list keeps the default, an explicit empty list clears it.
type GroupDTO struct {
	Vendor  []string `yaml:"vendor"`
	Sources []string `yaml:"sources"`
	Base    *string  `yaml:"base"`
	Subdir  *string  `yaml:"subdir"`
	Concat  *string  `yaml:"concat"`
	Watch   []string `yaml:"watch"`
}

// SpritesDTO overrides the sprite sources and output.
type SpritesDTO struct {
	Sources []string `yaml:"sources"`
	Output  string   `yaml:"output"`
}
