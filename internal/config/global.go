// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir for tests, which cannot rely on
// os.UserHomeDir honoring HOME on every platform.
var configDirOverride string

// SetConfigDirOverride points ConfigDir at dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the test override.
func Reset() {
	configDirOverride = ""
}
