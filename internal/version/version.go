package version

// Set at build time via -ldflags "-X toy-catalog/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
