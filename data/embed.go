package data

import (
	_ "embed"
)

// SampleData holds the demo user, opportunities and contacts loaded on an empty store.
//
//go:embed seed/sample_data.json
var SampleData []byte
