package config

// Layout constants.
const (
	// ButtonColumns is the number of columns in the console button grid.
	ButtonColumns = 3

	// ButtonWidth is the rendered width of one console button.
	ButtonWidth = 18

	// InputWidth is the width of the typeahead text field.
	InputWidth = 40

	// DetailWidth is the width of the record detail pane.
	DetailWidth = 56
)

// Display limits.
const (
	// MaxSuggestionRows limits dropdown rows before scrolling.
	MaxSuggestionRows = 8

	// MaxLabelWidth truncates long suggestion labels.
	MaxLabelWidth = 60

	// TruncationSuffix appended to truncated strings.
	TruncationSuffix = "..."
)
