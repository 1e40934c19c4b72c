package source

// Options control how a unit is processed.
type Options struct {
	// CheckIndentationConsistency reports lines that mix tabs and spaces or
	// that indent with a different character than the rest of the unit.
	CheckIndentationConsistency bool
	// TabWidth is the column width of a tab when measuring indentation.
	TabWidth int
	// Debug enables verbose tracing from the syntax stages.
	Debug bool
}

func DefaultOptions() Options {
	return Options{TabWidth: 8}
}
