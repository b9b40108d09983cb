package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set by ldflags during release builds
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

// Info is reported by /health and the status command
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   GetVersion(),
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetVersion prefers the ldflags version and falls back to module build info
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	return "dev"
}

// String renders the version with a short commit suffix when known
func (i Info) String() string {
	if len(i.GitCommit) >= 7 {
		return fmt.Sprintf("%s-%s", i.Version, i.GitCommit[:7])
	}

	return i.Version
}
