package presets

import (
	"fmt"
	"strings"

	"github.com/publieople/termseq/pkg/seqlib"
)

type route struct {
	cmd  string
	file string
}

var routes = map[string]route{
	"/":         {"cd ~/homepage", "Home.tsx"},
	"/about":    {"cd ~/homepage/about", "About.tsx"},
	"/projects": {"cd ~/homepage/projects", "Projects.tsx"},
	"/blog":     {"cd ~/homepage/blog", "Blog.tsx"},
	"/contact":  {"cd ~/homepage/contact", "Contact.tsx"},
}

// Build stage thresholds in percent.
const (
	STAGE1_AT = 30
	STAGE2_AT = 60
	STAGE3_AT = 90
)

// ProgressReplacements maps load progress to the $stage1..$stage3
// markers: "Done" once the stage threshold is reached, empty before.
func ProgressReplacements(progress int) map[string]string {
	done := func(at int) string {
		if progress >= at {
			return "Done"
		}
		return ""
	}
	return map[string]string{
		"stage1": done(STAGE1_AT),
		"stage2": done(STAGE2_AT),
		"stage3": done(STAGE3_AT),
	}
}

// Routing is the route change sequence for path. The build stage lines
// carry $stage1..$stage3; compile with ProgressReplacements and rebind as
// progress advances.
func Routing(path string, progress int) *seqlib.Sequence {
	if path == "" {
		path = "/"
	}
	r, ok := routes[path]
	if !ok {
		name := strings.TrimPrefix(path, "/")
		if name == "" {
			name = "index"
		}
		r = route{cmd: "cd " + path, file: name + ".tsx"}
	}
	steps := []*seqlib.Step{
		seqlib.Typing("cd", "> "+r.cmd, "text-zinc-300").WithSpeed(seqlib.Ms(15)),
		seqlib.Instant("file", "~/homepage/src/pages/"+r.file, "text-zinc-400"),
		seqlib.Typing("build", "$ yarn build", "text-green-500").WithSpeed(seqlib.Ms(15)),
		seqlib.Instant("tsc", "Running tsc -b... $stage1", "text-blue-500"),
		seqlib.Instant("vite", "Bundling with vite... $stage2", "text-blue-500"),
		seqlib.Instant("assets", "Optimizing assets... $stage3", "text-blue-500"),
		seqlib.Typing("preview", "$ yarn preview", "text-green-500").WithSpeed(seqlib.Ms(15)),
		seqlib.Instant("local", fmt.Sprintf("✓ Local: http://localhost:4173%s", path), "text-zinc-300"),
	}
	return &seqlib.Sequence{
		Name:         "routing",
		Description:  "route change to " + path,
		Steps:        steps,
		Opts:         opts(100, 2, 100, 150, 500),
		Replacements: ProgressReplacements(progress),
	}
}
