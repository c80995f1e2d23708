package logtap

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// DefaultLogDir resolves the platform-conventional per-user log
// directory for the given application name:
//
//	darwin:  ~/Library/Logs/<name>
//	windows: %LOCALAPPDATA%\<name>\Logs
//	other:   $XDG_STATE_HOME/<name>/log, else ~/.local/state/<name>/log
//
// The directory is not created here; FileSink construction does that.
func DefaultLogDir(name string) (string, error) {
	if name == "" {
		return "", &ConfigError{Field: "name", Value: name}
	}

	switch runtime.GOOS {
	case "darwin":
		home, err := homedir.Dir()
		if err != nil {
			return "", errors.Wrap(err, "resolving home directory")
		}
		return filepath.Join(home, "Library", "Logs", name), nil
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, name, "Logs"), nil
		}
		home, err := homedir.Dir()
		if err != nil {
			return "", errors.Wrap(err, "resolving home directory")
		}
		return filepath.Join(home, "AppData", "Local", name, "Logs"), nil
	default:
		if state := os.Getenv("XDG_STATE_HOME"); state != "" {
			return filepath.Join(state, name, "log"), nil
		}
		home, err := homedir.Dir()
		if err != nil {
			return "", errors.Wrap(err, "resolving home directory")
		}
		return filepath.Join(home, ".local", "state", name, "log"), nil
	}
}
