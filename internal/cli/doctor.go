package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/codeinsight/internal/config"
	"github.com/ppiankov/codeinsight/internal/discovery"
	"github.com/ppiankov/codeinsight/internal/policy"
	"github.com/spf13/cobra"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your codeinsight setup end-to-end:

  1. Config file - found and readable?
  2. Catalog     - loads and compiles?
  3. Base path   - exists and is a directory?
  4. Counter     - tokei installed?
  5. Visualizer  - interpreter and script present?
  6. Policy      - policy file valid, if any?
  7. Storage     - directory writable?

Fix the issues it reports, then run 'codeinsight run' with confidence.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []doctorCheck

	checks = append(checks, checkConfig())
	checks = append(checks, checkCatalog())
	checks = append(checks, checkBasePath())
	checks = append(checks, checkTools()...)
	checks = append(checks, checkPolicyFile())
	checks = append(checks, checkStorage())

	// Build summary
	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	summary := "all checks passed"
	if fails > 0 {
		summary = fmt.Sprintf("%d issue(s) found", fails)
	} else if warns > 0 {
		summary = fmt.Sprintf("ok with %d warning(s)", warns)
	}

	result := doctorResult{Checks: checks, Summary: summary}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeDoctorText(result)
}

func writeDoctorText(result doctorResult) error {
	icons := map[string]string{
		"ok":   "✓",
		"warn": "△",
		"fail": "✗",
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Printf("  %s %-20s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Printf("  %s %s\n", icon, c.Name)
		}
	}

	fmt.Printf("\n%s\n", result.Summary)
	return nil
}

func checkConfig() doctorCheck {
	path := config.ConfigPath()
	if configFile != "" {
		path = configFile
	}

	if _, err := os.Stat(path); err != nil {
		return doctorCheck{
			Name:   "config",
			Status: "warn",
			Detail: "no config file found (using defaults). Run: codeinsight init",
		}
	}

	return doctorCheck{
		Name:   "config",
		Status: "ok",
		Detail: path,
	}
}

func checkCatalog() doctorCheck {
	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return doctorCheck{
			Name:   "catalog",
			Status: "fail",
			Detail: err.Error(),
		}
	}

	source := "built-in"
	if cfg.CatalogFile != "" {
		source = cfg.CatalogFile
	}
	return doctorCheck{
		Name:   "catalog",
		Status: "ok",
		Detail: fmt.Sprintf("%s: %s", source, joinMax(catalog.Names(), 3)),
	}
}

func checkBasePath() doctorCheck {
	info, err := os.Stat(cfg.BasePath)
	if err != nil {
		return doctorCheck{
			Name:   "base path",
			Status: "warn",
			Detail: fmt.Sprintf("%s not found (pass one to 'run')", cfg.BasePath),
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			Name:   "base path",
			Status: "fail",
			Detail: fmt.Sprintf("%s is not a directory", cfg.BasePath),
		}
	}
	return doctorCheck{
		Name:   "base path",
		Status: "ok",
		Detail: cfg.BasePath,
	}
}

func checkTools() []doctorCheck {
	d := discovery.New(lookPath, os.Stat)
	plan := d.Discover(discovery.RegistryFor(cfg.Counter.Binary, cfg.Visualizer.Command))

	var checks []doctorCheck

	for _, td := range plan.Tools {
		c := doctorCheck{Name: string(td.Tool)}
		info := discovery.Registry[td.Tool]

		switch {
		case td.Tool == discovery.ToolVisualizer && !cfg.Visualizer.Enabled:
			c.Status = "ok"
			c.Detail = "disabled"
		case td.Runnable:
			c.Status = "ok"
			c.Detail = td.BinaryPath
		case td.Available:
			c.Status = "fail"
			c.Detail = fmt.Sprintf("%s found but missing %s", td.Binary, joinMax(td.MissingFiles(), 3))
		default:
			c.Status = "fail"
			c.Detail = fmt.Sprintf("%s not installed. Run: %s", td.Binary, info.InstallHint)
		}

		checks = append(checks, c)
	}

	return checks
}

func checkPolicyFile() doctorCheck {
	path := policy.FindPolicyFile()
	if path == "" {
		return doctorCheck{
			Name:   "policy",
			Status: "ok",
			Detail: "none (no thresholds enforced)",
		}
	}

	if _, err := policy.LoadFromFile(path); err != nil {
		return doctorCheck{
			Name:   "policy",
			Status: "fail",
			Detail: fmt.Sprintf("%s: %v", path, err),
		}
	}

	return doctorCheck{
		Name:   "policy",
		Status: "ok",
		Detail: path,
	}
}

func checkStorage() doctorCheck {
	storagePath := cfg.StorageDir
	if storagePath == "" {
		storagePath = ".codeinsight"
	}

	// Check if directory exists and is writable
	info, err := os.Stat(storagePath)
	if err != nil {
		return doctorCheck{
			Name:   "storage",
			Status: "ok",
			Detail: fmt.Sprintf("%s (will be created on first --store)", storagePath),
		}
	}

	if !info.IsDir() {
		return doctorCheck{
			Name:   "storage",
			Status: "fail",
			Detail: fmt.Sprintf("%s exists but is not a directory", storagePath),
		}
	}

	// Try writing a temp file to check write access
	tmpFile := filepath.Join(storagePath, ".doctor-check")
	if err := os.WriteFile(tmpFile, []byte("ok"), 0600); err != nil {
		return doctorCheck{
			Name:   "storage",
			Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", storagePath, err),
		}
	}
	_ = os.Remove(tmpFile)

	return doctorCheck{
		Name:   "storage",
		Status: "ok",
		Detail: storagePath,
	}
}

// joinMax joins up to n strings with ", ".
func joinMax(s []string, n int) string {
	if len(s) <= n {
		result := ""
		for i, v := range s {
			if i > 0 {
				result += ", "
			}
			result += v
		}
		return result
	}
	result := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			result += ", "
		}
		result += s[i]
	}
	return fmt.Sprintf("%s +%d more", result, len(s)-n)
}
