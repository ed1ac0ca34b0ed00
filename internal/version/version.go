// Package version provides build information for the relcmp command.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo contains build information
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Module    string `json:"module"`
	Arrow     string `json:"arrow"`
	Dirty     bool   `json:"dirty"`
}

// Info returns build information, filling gaps from the embedded module data
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		Arrow:     unknownValue,
		Dirty:     strings.HasSuffix(GitCommit, "-dirty"),
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.Module = buildInfo.Main.Path
	for _, dep := range buildInfo.Deps {
		if strings.HasPrefix(dep.Path, "github.com/apache/arrow-go/") {
			info.Arrow = dep.Version
		}
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == unknownValue {
				info.GitCommit = setting.Value
			}
		case "vcs.modified":
			info.Dirty = info.Dirty || setting.Value == "true"
		}
	}
	return info
}

// String returns a formatted version string
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("relcmp\n")
	fmt.Fprintf(&sb, "Version: %s", b.Version)
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")

	if b.BuildDate != unknownValue {
		fmt.Fprintf(&sb, "Build Date: %s\n", b.BuildDate)
	}
	if b.GitCommit != unknownValue {
		commit := strings.TrimSuffix(b.GitCommit, "-dirty")
		if len(commit) > commitHashLength {
			commit = commit[:commitHashLength]
		}
		fmt.Fprintf(&sb, "Git Commit: %s\n", commit)
	}
	fmt.Fprintf(&sb, "Go Version: %s\n", b.GoVersion)
	if b.Arrow != unknownValue {
		fmt.Fprintf(&sb, "Arrow: %s\n", b.Arrow)
	}
	if b.Module != "" {
		fmt.Fprintf(&sb, "Module: %s\n", b.Module)
	}
	return sb.String()
}

// IsRelease returns true if this is a release version (not dev or a pre-release)
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}
