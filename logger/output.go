package logger

// OutputCategory defines a category of output that can be enabled/disabled
// independently of log severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Generated code or JSON envelope
	OutputErrors                        // Errors with hints

	// Level 1 (-v)
	OutputSummary // From/to summary and the reproducing command line
	OutputWatch   // Watch mode regeneration notices
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,
	OutputSummary: VerbosityInfo,
	OutputWatch:   VerbosityInfo,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
