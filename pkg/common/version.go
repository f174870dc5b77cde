package common

import (
	"fmt"
	"strings"
)

// Set at build time with -ldflags "-X github.com/WangYihang/OSINT-Lab/pkg/common.Version=..."
var (
	// Version is the release of the program
	Version = "dev"
	// CommitHash is the commit the program was built from
	CommitHash = "unknown"
	// BuildTime is when the program was built
	BuildTime = "unknown"
)

// ProgramVersion is the version object of the program
type ProgramVersion struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
}

// Current returns the version the program was built with
func Current() ProgramVersion {
	return ProgramVersion{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
	}
}

// Short returns the one-line version used in the User-Agent and logs
func (v ProgramVersion) Short() string {
	return fmt.Sprintf("v%s-%s", strings.TrimPrefix(v.Version, "v"), v.CommitHash)
}

// String returns the verbose version of the program
func (v ProgramVersion) String() string {
	var b strings.Builder
	b.WriteString("OSINT Lab\n")
	fmt.Fprintf(&b, "Version: v%s\n", strings.TrimPrefix(v.Version, "v"))
	fmt.Fprintf(&b, "Commit: %s\n", v.CommitHash)
	fmt.Fprintf(&b, "Build Date: %s", v.BuildTime)
	return b.String()
}
