package ir

// Version constants for the descriptor schema and tooling.
const (
	// IRVersion is the descriptor schema version written into manifests.
	IRVersion = "1"

	// ToolVersion is the shade tooling version.
	ToolVersion = "0.1.0"
)
