// features.go - Build-time feature registry

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

const Version = "0.3.0"

// compiledFeatures tracks build-time feature flags via init() registration.
var compiledFeatures []string

// CompiledFeatures returns the sorted list of backends compiled into this build.
func CompiledFeatures() []string {
	out := slices.Clone(compiledFeatures)
	slices.Sort(out)
	return out
}

func PrintFeatures(w io.Writer) {
	fmt.Fprintf(w, "Monologue %s\n", Version)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiled features:")
	features := CompiledFeatures()
	for _, f := range features {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(features) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
}
