package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const fallbackVersion = "0.1.0"

// VERSION is looked up in the working directory and its two parents so
// that binaries and package tests both find it
var versionSearchDirs = []string{".", "..", filepath.Join("..", "..")}

// localVersion is computed once; git is not re-run per call
var localVersion = sync.OnceValue(func() string {
	return composeVersion(readVersionFile(versionSearchDirs), gitCommitCount())
})

// GetVersion returns APP_VERSION when set, otherwise the VERSION file's
// base version with the git commit count appended
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return localVersion()
}

func composeVersion(base string, commits int) string {
	if commits <= 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, commits)
}

// readVersionFile returns the first non-empty VERSION file found in dirs
func readVersionFile(dirs []string) string {
	for _, dir := range dirs {
		content, err := os.ReadFile(filepath.Join(dir, "VERSION"))
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}
	return fallbackVersion
}

func gitCommitCount() int {
	out, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
