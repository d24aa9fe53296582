// Package scenarios embeds the built-in scenario content.
package scenarios

import "embed"

// Default is the scenario played when none is chosen.
const Default = "central_highlands"

// FS holds the built-in scenarios, one file per scenario.
//
//go:embed *.json *.yaml *.lua
var FS embed.FS
