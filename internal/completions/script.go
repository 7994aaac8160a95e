package completions

import (
	"fmt"
	"strings"
)

// CandidatesTool is the name of the reserved tool the scripts call to
// compute candidates.
const CandidatesTool = "__complete"

const bashTemplate = `_%[1]s_complete() {
    local words=("${COMP_WORDS[@]:1:COMP_CWORD}")
    local IFS=$'\n'
    COMPREPLY=($(compgen -W "$(%[2]s %[3]s -- "${words[@]}" 2>/dev/null)" -- "${COMP_WORDS[COMP_CWORD]}"))
}
complete -o default -F _%[1]s_complete %[1]s
`

const zshTemplate = `_%[1]s_complete() {
    local -a candidates
    candidates=(${(f)"$(%[2]s %[3]s -- "${words[@]:1}" 2>/dev/null)"})
    (( ${#candidates} )) && compadd -a candidates
}
compdef _%[1]s_complete %[1]s
`

const fishTemplate = `complete -c %[1]s -f -a '(%[2]s %[3]s -- (commandline -opc)[2..-1] (commandline -ct) 2>/dev/null)'
`

// Script returns the completion script for shell. binary is the command name
// completion is registered for; binaryPath is the command the script invokes
// to compute candidates, usually the same.
func Script(shell Shell, binary, binaryPath string) (string, error) {
	var tmpl string
	switch shell {
	case ShellBash:
		tmpl = bashTemplate
	case ShellZsh:
		tmpl = zshTemplate
	case ShellFish:
		tmpl = fishTemplate
	default:
		return "", fmt.Errorf("unsupported shell %q (use %s)", shell, strings.Join(Supported(), ", "))
	}
	return fmt.Sprintf(tmpl, binary, binaryPath, CandidatesTool), nil
}
