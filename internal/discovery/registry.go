package discovery

import "strings"

// Tool identifies an external collaborator of the pipeline.
type Tool string

const (
	ToolCounter    Tool = "counter"
	ToolVisualizer Tool = "visualizer"
)

// ToolExecInfo describes how to find an external tool.
type ToolExecInfo struct {
	Binary      string   // executable name (looked up in PATH)
	Purpose     string   // what the pipeline uses it for
	Files       []string // files the tool needs, relative to the working directory
	InstallHint string
}

// Registry holds the default tools.
var Registry = map[Tool]ToolExecInfo{
	ToolCounter: {
		Binary:      "tokei",
		Purpose:     "per-file line counts",
		InstallHint: "cargo install tokei (or brew install tokei)",
	},
	ToolVisualizer: {
		Binary:      "python3",
		Purpose:     "treemap rendering",
		Files:       []string{"analyze.py"},
		InstallHint: "install Python 3 and place analyze.py in the working directory",
	},
}

// RegistryFor returns the registry with binaries taken from configuration.
// visualizer is the program followed by its leading arguments; arguments
// that are not flags are treated as required files.
func RegistryFor(counterBinary string, visualizer []string) map[Tool]ToolExecInfo {
	reg := make(map[Tool]ToolExecInfo, len(Registry))
	for k, v := range Registry {
		reg[k] = v
	}

	if counterBinary != "" {
		info := reg[ToolCounter]
		info.Binary = counterBinary
		reg[ToolCounter] = info
	}

	if len(visualizer) > 0 && visualizer[0] != "" {
		info := reg[ToolVisualizer]
		info.Binary = visualizer[0]
		info.Files = nil
		for _, arg := range visualizer[1:] {
			if !strings.HasPrefix(arg, "-") {
				info.Files = append(info.Files, arg)
			}
		}
		reg[ToolVisualizer] = info
	}

	return reg
}
