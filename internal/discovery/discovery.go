package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LookPathFunc matches the signature of exec.LookPath.
type LookPathFunc func(file string) (string, error)

// StatFunc matches the signature of os.Stat.
type StatFunc func(name string) (os.FileInfo, error)

// Discoverer probes the local environment for the external tools.
// Injectable deps make it fully testable.
type Discoverer struct {
	lookPath LookPathFunc
	stat     StatFunc
}

// New creates a Discoverer with the given dependency functions.
func New(lookPath LookPathFunc, stat StatFunc) *Discoverer {
	return &Discoverer{
		lookPath: lookPath,
		stat:     stat,
	}
}

// ToolDiscovery describes what was found for a single tool.
type ToolDiscovery struct {
	Tool       Tool         `json:"tool"`
	Binary     string       `json:"binary"`
	BinaryPath string       `json:"binary_path"`
	Available  bool         `json:"available"`
	Files      []FileStatus `json:"files,omitempty"`
	Runnable   bool         `json:"runnable"`
}

// FileStatus tracks whether a required file exists.
type FileStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// DiscoveryPlan is the complete result of a discovery scan.
type DiscoveryPlan struct {
	Tools         []ToolDiscovery `json:"tools"`
	TotalFound    int             `json:"total_found"`
	TotalRunnable int             `json:"total_runnable"`
}

// Discover checks which tools are installed and whether their files exist.
func (d *Discoverer) Discover(registry map[Tool]ToolExecInfo) *DiscoveryPlan {
	plan := &DiscoveryPlan{}

	for tool, info := range registry {
		td := ToolDiscovery{
			Tool:   tool,
			Binary: info.Binary,
		}

		// Check if binary exists in PATH
		if path, err := d.lookPath(info.Binary); err == nil {
			td.Available = true
			td.BinaryPath = path
		}

		allFiles := true
		for _, f := range info.Files {
			exists := d.fileExists(expandHome(f))
			td.Files = append(td.Files, FileStatus{Path: f, Exists: exists})
			if !exists {
				allFiles = false
			}
		}

		td.Runnable = td.Available && allFiles

		plan.Tools = append(plan.Tools, td)

		if td.Available {
			plan.TotalFound++
		}
		if td.Runnable {
			plan.TotalRunnable++
		}
	}

	// Sort for deterministic output
	sort.Slice(plan.Tools, func(i, j int) bool {
		return plan.Tools[i].Tool < plan.Tools[j].Tool
	})

	return plan
}

// Find returns the discovery entry for a tool.
func (p *DiscoveryPlan) Find(tool Tool) (ToolDiscovery, bool) {
	for _, t := range p.Tools {
		if t.Tool == tool {
			return t, true
		}
	}
	return ToolDiscovery{}, false
}

// MissingFiles lists required files that were not found.
func (t ToolDiscovery) MissingFiles() []string {
	var missing []string
	for _, f := range t.Files {
		if !f.Exists {
			missing = append(missing, f.Path)
		}
	}
	return missing
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists (not a directory).
func (d *Discoverer) fileExists(path string) bool {
	info, err := d.stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
