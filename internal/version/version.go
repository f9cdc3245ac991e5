package version

// App identity used in logs and the /api/status payload.
var (
	AppName        = "Assaultron Core"
	AppDescription = "Embodied decision pipeline for a conversational agent"

	// Semver is overridden at build time via -ldflags.
	Semver = "dev"
)
