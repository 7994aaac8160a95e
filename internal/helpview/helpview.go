// Package helpview renders a tool Definition into wrapped help text: a
// usage synopsis, the wrapped long description, flag and argument tables,
// and optionally a recursive subtool listing filtered by a search pattern.
package helpview

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/tooltree/cli/internal/tooldefs"
	"github.com/tooltree/cli/internal/ui/style"
)

// DefaultWidth is used when the output device's column count cannot be
// detected and no explicit width was requested.
const DefaultWidth = 80

// Options control rendering.
type Options struct {
	// BinaryName is the executable name shown in synopses.
	BinaryName string

	// Recursive walks the whole subtool subtree instead of direct children.
	Recursive bool

	// Search filters the subtool listing to tools whose name or short
	// description matches; ancestor namespaces of matches are kept to
	// preserve tree context.
	Search string

	// ShowSource appends the configuration source that defined each tool.
	ShowSource bool

	// WrapWidth is the column to wrap free text at; DefaultWidth when
	// unset.
	WrapWidth int
}

func (o Options) width() int {
	if o.WrapWidth > 0 {
		return o.WrapWidth
	}
	return DefaultWidth
}

func (o Options) binary() string {
	if o.BinaryName != "" {
		return o.BinaryName
	}
	return "tooltree"
}

// Synopsis returns the one-line invocation form of def.
func Synopsis(def *tooldefs.Definition, binaryName string) string {
	parts := []string{binaryName}
	if name := def.DisplayName(); name != "" {
		parts = append(parts, name)
	}
	if def.ArgParsingDisabled() {
		parts = append(parts, "[ARGS...]")
		return strings.Join(parts, " ")
	}
	if len(def.Flags()) > 0 {
		parts = append(parts, "[FLAGS...]")
	}
	for _, arg := range def.RequiredArgs() {
		parts = append(parts, "<"+arg.Name()+">")
	}
	for _, arg := range def.OptionalArgs() {
		parts = append(parts, "["+arg.Name()+"]")
	}
	if rem := def.RemainingArg(); rem != nil {
		parts = append(parts, "["+rem.Name()+"...]")
	}
	return strings.Join(parts, " ")
}

// Usage renders the usage-only variant: wrapped line(s) giving just the
// invocation synopsis.
func Usage(def *tooldefs.Definition, binaryName string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.WrapString("Usage: "+Synopsis(def, binaryName), uint(width)) + "\n"
}

// Render produces the full help text for def.
func Render(def *tooldefs.Definition, r tooldefs.Resolver, opts Options) string {
	var out bytes.Buffer
	width := opts.width()

	name := def.DisplayName()
	if name == "" {
		name = opts.binary()
	}
	heading := style.Header(name)
	if def.Desc() != "" {
		heading += " - " + def.Desc()
	}
	out.WriteString(wordwrap.WrapString(heading, uint(width)))
	out.WriteString("\n\n")

	out.WriteString(style.Header("USAGE") + "\n")
	out.WriteString("   " + formatSynopsis(def, opts.binary()) + "\n\n")

	if def.LongDesc() != "" {
		out.WriteString(wordwrap.WrapString(def.LongDesc(), uint(width)))
		out.WriteString("\n\n")
	}

	if opts.ShowSource && def.SourcePath() != "" {
		out.WriteString(style.Muted("Defined in "+def.SourcePath()) + "\n\n")
	}

	writeSubtools(&out, def, r, opts)
	writeFlags(&out, def)
	writeArgs(&out, def)

	return out.String()
}

// formatSynopsis styles the invocation with the command in Info color and
// the argument signature muted.
func formatSynopsis(def *tooldefs.Definition, binaryName string) string {
	synopsis := Synopsis(def, binaryName)
	cmdEnd := len(synopsis)
	for i, c := range synopsis {
		if c == '[' || c == '<' {
			cmdEnd = i
			break
		}
	}
	cmd := strings.TrimSpace(synopsis[:cmdEnd])
	rest := ""
	if cmdEnd < len(synopsis) {
		rest = synopsis[cmdEnd:]
	}
	if rest == "" {
		return style.Info(cmd)
	}
	return style.Info(cmd) + " " + style.Muted(rest)
}

func writeSubtools(out *bytes.Buffer, def *tooldefs.Definition, r tooldefs.Resolver, opts Options) {
	if r == nil {
		return
	}
	all := r.Subtools(def.FullName(), opts.Recursive)
	subtools := all[:0:0]
	for _, sub := range all {
		if !reserved(sub) {
			subtools = append(subtools, sub)
		}
	}
	if len(subtools) == 0 {
		return
	}

	included := filterSubtools(subtools, opts.Search)
	if len(included) == 0 {
		return
	}

	out.WriteString(style.Header("TOOLS") + "\n")
	base := len(def.FullName())
	for _, sub := range subtools {
		if !included[sub.DisplayName()] {
			continue
		}
		relative := strings.Join(sub.FullName()[base:], " ")
		line := fmt.Sprintf("   %s  %s", style.Info(fmt.Sprintf("%-16s", relative)), sub.Desc())
		if opts.ShowSource && sub.SourcePath() != "" {
			line += " " + style.Muted("("+sub.SourcePath()+")")
		}
		out.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	out.WriteString("\n")
}

// reserved reports whether a tool is an internal one, hidden from
// listings. Reserved tools carry a "__" name prefix.
func reserved(def *tooldefs.Definition) bool {
	name := def.FullName()
	return len(name) > 0 && strings.HasPrefix(name[len(name)-1], "__")
}

// filterSubtools returns the display names to include. Without a search
// pattern everything is included; with one, a subtool is included when its
// name or short description matches, and ancestor namespaces of matches are
// kept for tree context.
func filterSubtools(subtools []*tooldefs.Definition, search string) map[string]bool {
	included := make(map[string]bool, len(subtools))
	if search == "" {
		for _, sub := range subtools {
			included[sub.DisplayName()] = true
		}
		return included
	}

	pattern, err := regexp.Compile("(?i)" + search)
	if err != nil {
		pattern = regexp.MustCompile("(?i)" + regexp.QuoteMeta(search))
	}

	names := make(map[string]bool, len(subtools))
	for _, sub := range subtools {
		names[sub.DisplayName()] = true
	}

	for _, sub := range subtools {
		if !pattern.MatchString(sub.SimpleName()) && !pattern.MatchString(sub.Desc()) {
			continue
		}
		included[sub.DisplayName()] = true
		words := sub.FullName()
		for cut := 1; cut < len(words); cut++ {
			ancestor := strings.Join(words[:cut], " ")
			if names[ancestor] {
				included[ancestor] = true
			}
		}
	}
	return included
}

func writeFlags(out *bytes.Buffer, def *tooldefs.Definition) {
	flags := def.Flags()
	if len(flags) == 0 {
		return
	}
	out.WriteString(style.Header("FLAGS") + "\n")
	for _, f := range flags {
		fmt.Fprintf(out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", f.Display())), f.Desc())
	}
	out.WriteString("\n")
}

func writeArgs(out *bytes.Buffer, def *tooldefs.Definition) {
	required := def.RequiredArgs()
	optional := def.OptionalArgs()
	rem := def.RemainingArg()
	if len(required) == 0 && len(optional) == 0 && rem == nil {
		return
	}

	out.WriteString(style.Header("ARGUMENTS") + "\n")
	for _, a := range required {
		fmt.Fprintf(out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", "<"+a.Name()+">")), a.Desc())
	}
	for _, a := range optional {
		desc := a.Desc()
		if a.Default() != nil {
			desc = strings.TrimSpace(desc + fmt.Sprintf(" (default %v)", a.Default()))
		}
		fmt.Fprintf(out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", "["+a.Name()+"]")), desc)
	}
	if rem != nil {
		fmt.Fprintf(out, "   %s  %s\n", style.Info(fmt.Sprintf("%-24s", "["+rem.Name()+"...]")), rem.Desc())
	}
	out.WriteString("\n")
}
