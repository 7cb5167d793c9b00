// Package schemas holds the JSON Schemas for the structured data the copilot
// exchanges. The files are embedded so validation works from any directory.
package schemas

import "embed"

//go:embed *.schema.json
var files embed.FS

// StructuredInsightFile is the schema for structured-mode answers.
const StructuredInsightFile = "structured_insight.schema.json"

// Read returns the contents of an embedded schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// StructuredInsight returns the structured-mode answer schema.
func StructuredInsight() []byte {
	data, err := files.ReadFile(StructuredInsightFile)
	if err != nil {
		panic("embedded schema missing: " + err.Error())
	}
	return data
}
