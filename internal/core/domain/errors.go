package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a task that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrUnknownGroup is returned when an asset group name is not one of the known groups.
	ErrUnknownGroup = zerr.New("unknown asset group")

	// ErrOverlappingPaths is returned when a destination root overlaps the source root.
	ErrOverlappingPaths = zerr.New("destination overlaps source tree")

	// ErrEmptyDestination is returned when a destination root is empty.
	ErrEmptyDestination = zerr.New("destination root must not be empty")

	// ErrIncludeCycle is returned when markup includes reference each other recursively.
	ErrIncludeCycle = zerr.New("include cycle detected")

	// ErrInvalidIncludeContext is returned when an include carries a context that is not a JSON object.
	ErrInvalidIncludeContext = zerr.New("invalid include context")

	// ErrStageFailed is returned when a pipeline stage cannot transform an asset.
	ErrStageFailed = zerr.New("pipeline stage failed")

	// ErrInvalidSprite is returned when a sprite source is not a parseable SVG document.
	ErrInvalidSprite = zerr.New("invalid sprite source")

	// ErrConfigReadFailed is returned when the layout file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the layout file is not valid YAML for the schema.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the layout file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrSettingsLoadFailed is returned when environment settings cannot be decoded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")

	// ErrBuildExecutionFailed is returned when a task run fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
