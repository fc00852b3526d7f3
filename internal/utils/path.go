package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// DataMarker is the file every data directory must contain.
const DataMarker = "index.json"

// PathResolver finds the data directory relative to the binary and the working directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "setlistserve")
		}
		return filepath.Join(homeDir, ".config", "setlistserve")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "setlistserve")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "setlistserve")
	default:
		return filepath.Join(homeDir, ".config", "setlistserve")
	}
}

// GetDataDir resolves the data directory. Candidates, in order:
// 1. the path itself, if absolute or relative to the working directory
// 2. relative to the executable directory
// 3. data/ next to the executable, its parent, or the config directory
//
// When nothing qualifies the first candidate is returned so the caller can
// report a meaningful path.
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) string {
	candidates := pr.dataDirCandidates(userSpecifiedPath)
	for _, path := range candidates {
		if IsValidDataDir(path) {
			log.Debugf("Found valid data directory: %s", path)
			return path
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	return candidates[0]
}

// IsValidDataDir checks that path is a directory holding the year index.
func IsValidDataDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	return FileExists(filepath.Join(path, DataMarker))
}

// DiagnosePathIssues lists every candidate directory with what was found there.
func (pr *PathResolver) DiagnosePathIssues(userDataPath string) map[string]any {
	candidates := pr.dataDirCandidates(userDataPath)
	tests := make([]map[string]any, 0, len(candidates))
	for _, candidate := range candidates {
		tests = append(tests, map[string]any{
			"path":     candidate,
			"exists":   FileExists(candidate),
			"is_valid": IsValidDataDir(candidate),
			"files":    listJSONFiles(candidate),
		})
	}

	cwd, _ := os.Getwd()
	return map[string]any{
		"requested_path":      userDataPath,
		"executable_dir":      pr.executableDir,
		"current_dir":         cwd,
		"config_dir":          pr.configDir,
		"os":                  runtime.GOOS + "/" + runtime.GOARCH,
		"data_dir_candidates": tests,
	}
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

func (pr *PathResolver) dataDirCandidates(userSpecifiedPath string) []string {
	var candidates []string
	if filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, userSpecifiedPath)
	} else {
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
		}
		candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
	}
	return append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	)
}

func listJSONFiles(path string) []string {
	matches, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimPrefix(m, path+string(filepath.Separator)))
	}
	return names
}
