package tui

import "fmt"

// Set at build time with -ldflags "-X".
var (
	AppVersion = "dev"
	GitCommit  = "unknown"
	BuildTime  = "unknown"
)

func versionLabel() string {
	label := AppVersion
	if GitCommit != "unknown" || BuildTime != "unknown" {
		label = fmt.Sprintf("%s (%s %s)", AppVersion, GitCommit, BuildTime)
	}
	return label
}
