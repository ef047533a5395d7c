package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - generated text, errors with hints, final status
//	1 (-v)      - + stage progress, resolved target and template
//	2 (-vv)     - + config values, timing, template source
//	3 (-vvv)    - + each rendered line

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Generated text
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // "✓ Generated ..." lines

	// Level 1 (-v)
	OutputProgress // Pipeline stage transitions
	OutputTarget   // Resolved target settings

	// Level 2 (-vv)
	OutputConfig   // Config values loaded/applied
	OutputTiming   // Stage timing
	OutputTemplate // Template source and parse details

	// Level 3 (-vvv)
	OutputLines // Every rendered line
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputTarget:   VerbosityInfo,

	OutputConfig:   VerbosityDebug,
	OutputTiming:   VerbosityDebug,
	OutputTemplate: VerbosityDebug,

	OutputLines: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputUserStatus: "status",
	OutputProgress:   "progress",
	OutputTarget:     "target",
	OutputConfig:     "config",
	OutputTiming:     "timing",
	OutputTemplate:   "template",
	OutputLines:      "lines",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
