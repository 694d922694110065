// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the CodeAid home directory (~/.codeaid
// unless CODEAID_HOME is set).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: Plain-text prompt overrides
package file

import (
	"os"
	"path/filepath"
)

// HomeEnv names the environment variable that relocates the CodeAid home directory.
const HomeEnv = "CODEAID_HOME"

// HomeDir returns the CodeAid home directory.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".codeaid"), nil
}
