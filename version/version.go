package version

import (
	"fmt"
	"io"
)

// Set through -ldflags "-X github.com/mylucky2d3d/crawler/version.Version=..."
var (
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
	Version   = "1.0.0"
)

func GetVersion() string {
	if GitHash != "" && GitHash != "None" {
		h := GitHash
		if len(h) > 7 {
			h = h[:7]
		}
		return fmt.Sprintf("%s-%s", Version, h)
	}
	return Version
}

// Printer prints build information to w.
func Printer(w io.Writer) {
	fmt.Fprintln(w, "Version:          ", GetVersion())
	fmt.Fprintln(w, "Git Branch:       ", GitBranch)
	fmt.Fprintln(w, "Git Commit:       ", GitHash)
	fmt.Fprintln(w, "Build Time (UTC): ", BuildTS)
}
