// Package version identifies the tscli build. The values stamped with
// -ldflags "-X github.com/teranos/tscli/version.Version=..." win; builds
// made with go install fall back to the module and VCS data Go records.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped at link time.
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

const unstamped = "dev"

// Info is what `tscli version` prints and what JSON envelopes carry as
// their generator.
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	info := Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = withBuildInfo(info, bi)
	}
	return info
}

// withBuildInfo fills the fields the linker left unstamped.
func withBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if info.Version == unstamped {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.CommitHash == unstamped {
				info.CommitHash = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

// String reads "tscli <version> (commit <short hash>)".
func (i Info) String() string {
	return fmt.Sprintf("tscli %s (commit %s)", i.Version, i.Short())
}

func (i Info) Short() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
