// Package report renders aggregated scan results into the requested
// output formats. Formatters are pure functions over the result; writing
// anything to disk or CI channels is the caller's concern.
package report

// Meta carries run-level descriptors that several formatters embed.
type Meta struct {
	ToolName    string
	ToolVersion string
	ScanURL     string
}
