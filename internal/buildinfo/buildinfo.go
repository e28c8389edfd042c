// Package buildinfo reports the engine version, build metadata, dependency
// manifest and license text.
package buildinfo

import (
	_ "embed"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Name is the engine name used in version output.
const Name = "catgirl-engine"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// readBuildInfo is a test seam for debug.ReadBuildInfo.
	readBuildInfo = debug.ReadBuildInfo
)

// License is the engine license text.
//
//go:embed license.txt
var License string

// Dependency is one module linked into the binary.
type Dependency struct {
	Path    string
	Version string
}

// Info describes the running build.
type Info struct {
	Name         string
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	Target       string // GOOS/GOARCH
	Dependencies []Dependency
}

// Current returns build information for the running binary.
// Values injected through -ldflags take priority over VCS stamps.
func Current() Info {
	info := Info{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Target:    runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}

	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}

	for _, d := range bi.Deps {
		dep := Dependency{Path: d.Path, Version: d.Version}
		if d.Replace != nil {
			dep.Version = d.Replace.Version
			if dep.Version == "" {
				dep.Version = "=> " + d.Replace.Path
			}
		}
		info.Dependencies = append(info.Dependencies, dep)
	}
	sort.Slice(info.Dependencies, func(i, j int) bool {
		return info.Dependencies[i].Path < info.Dependencies[j].Path
	})

	return info
}

// VersionString returns the one-line version banner.
func (i Info) VersionString() string {
	if i.Version == "dev" {
		return fmt.Sprintf("%s dev (built from source)", i.Name)
	}
	return fmt.Sprintf("%s %s", i.Name, i.Version)
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

// PrintVersion writes the version banner.
func PrintVersion(w io.Writer, info Info) error {
	p := &printer{w: w}
	p.printf("%s\n", info.VersionString())
	return p.err
}

// PrintBuildInfo writes the build metadata block.
func PrintBuildInfo(w io.Writer, info Info) error {
	p := &printer{w: w}
	p.printf("Commit:     %s\n", info.Commit)
	p.printf("Built:      %s\n", info.BuildDate)
	p.printf("Go:         %s\n", info.GoVersion)
	p.printf("Target:     %s\n", info.Target)
	return p.err
}

// PrintDependencies writes the dependency manifest.
func PrintDependencies(w io.Writer, info Info) error {
	p := &printer{w: w}
	if len(info.Dependencies) == 0 {
		p.printf("Dependencies: none\n")
		return p.err
	}
	p.printf("Dependencies:\n")
	for _, d := range info.Dependencies {
		p.printf("  %s %s\n", d.Path, d.Version)
	}
	return p.err
}

// PrintLicense writes the license text, ending with a newline.
func PrintLicense(w io.Writer, license string) error {
	p := &printer{w: w}
	p.printf("%s", license)
	if !strings.HasSuffix(license, "\n") {
		p.printf("\n")
	}
	return p.err
}

// Print writes the full version report in fixed order: version, build
// metadata, dependencies, a blank line, then the license.
func Print(w io.Writer, info Info, license string) error {
	steps := []func() error{
		func() error { return PrintVersion(w, info) },
		func() error { return PrintBuildInfo(w, info) },
		func() error { return PrintDependencies(w, info) },
		func() error { _, err := io.WriteString(w, "\n"); return err },
		func() error { return PrintLicense(w, license) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("buildinfo: %w", err)
		}
	}
	return nil
}

// Log records the build at debug level.
func Log(logger *log.Logger, info Info) {
	logger.Debug("build info",
		"version", info.Version,
		"commit", info.Commit,
		"built", info.BuildDate,
		"go", info.GoVersion,
		"target", info.Target,
		"dependencies", len(info.Dependencies),
	)
}
