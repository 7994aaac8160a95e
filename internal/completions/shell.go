// Package completions generates shell tab completion for the tool tree.
// The emitted scripts delegate candidate computation back to the binary, so
// completion stays correct as definition files change and the registry only
// loads the sources a completion request actually touches.
package completions

import (
	"os"
	"path/filepath"
)

// Shell identifies a supported shell.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// Supported returns the supported shell names.
func Supported() []string {
	return []string{string(ShellBash), string(ShellZsh), string(ShellFish)}
}

// RunningShell detects the current shell from $SHELL. Returns "" when the
// shell is unknown or unsupported.
func RunningShell() Shell {
	switch filepath.Base(os.Getenv("SHELL")) {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ""
	}
}
