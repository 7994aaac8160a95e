// Package paths locates the per-user configuration directories.
package paths

import (
	"os"
	"path/filepath"
)

const appDirName = "tooltree"

// ConfigDir returns the per-user configuration directory. Uses
// os.UserConfigDir() which returns:
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_CONFIG_HOME or ~/.config
//   - Windows: %AppData% (roaming)
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appDirName)
}

// UserToolsDir returns the per-user tool definition directory. Definitions
// here apply in every project and are overridden by project-local ones.
func UserToolsDir() string {
	return filepath.Join(ConfigDir(), "tools")
}
