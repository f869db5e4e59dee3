package version

import "fmt"

var (
	CLIName    = "hypectl"
	CLIVersion = "0.2.0"
	Commit     = "unknown"
	BuildDate  = "unknown"
)

func Long() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", CLIVersion, Commit, BuildDate)
}
