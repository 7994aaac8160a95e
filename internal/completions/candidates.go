package completions

import (
	"strings"

	"github.com/tooltree/cli/internal/registry"
)

// Candidates computes completion candidates for a partially typed command
// line. words holds every argument after the binary name; the last element
// is the word being completed and may be empty.
//
// A leading dash on the partial word completes the resolved tool's flag
// switches, otherwise its subtool names. Reserved tools are never offered.
func Candidates(ld *registry.Loader, words []string) []string {
	partial := ""
	if len(words) > 0 {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}

	def, remaining, err := ld.Lookup(words)
	if err != nil || len(remaining) > 0 {
		return nil
	}

	var out []string
	if strings.HasPrefix(partial, "-") {
		for _, flag := range def.Flags() {
			for _, sw := range flag.Switches() {
				if strings.HasPrefix(sw.Name, partial) {
					out = append(out, sw.Name)
				}
			}
		}
		return out
	}

	for _, sub := range ld.Subtools(def.FullName(), false) {
		name := sub.FullName()
		last := name[len(name)-1]
		if strings.HasPrefix(last, "__") {
			continue
		}
		if strings.HasPrefix(last, partial) {
			out = append(out, last)
		}
	}
	return out
}
