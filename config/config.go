// Package config allows the vsfs tools to read host-specific defaults,
// such as the size of newly created images.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// dir is a variable so that tests can point it elsewhere.
var dir = func() string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// No defaults then; the built-in values apply.
		return ""
	}
	// Typically ~/.config/vsfs on Linux
	return filepath.Join(userConfigDir, "vsfs")
}()

func Dir() string { return dir }

// ReadFile returns the trimmed contents of configBaseName in the
// configuration directory.
func ReadFile(configBaseName string) (string, error) {
	if dir == "" {
		return "", os.ErrNotExist
	}
	b, err := os.ReadFile(filepath.Join(dir, configBaseName))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Int returns the integer stored in configBaseName, or def if the file
// does not exist or does not contain an integer.
func Int(configBaseName string, def int) int {
	s, err := ReadFile(configBaseName)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("reading %s: %v", configBaseName, err)
		}
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("%s: %v, using %d", filepath.Join(dir, configBaseName), err, def)
		return def
	}
	return v
}
