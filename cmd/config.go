package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lgtm"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage lgtm configuration.

Running bare 'lgtm config' is the same as 'lgtm config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# lgtm configuration
# See: lgtm config show (for effective values and sources)

# SQLite database path (default: ~/.config/lgtm/lgtm.db)
# db_path: {{ .DBPath }}

# AI backend
ai:
  # Provider: anthropic, openai, or ollama (default: anthropic)
  provider: "{{ .AIProvider }}"

  # Model override; empty picks the provider default
  model: "{{ .AIModel }}"

  # API key; falls back to ANTHROPIC_API_KEY / OPENAI_API_KEY
  api_key: ""

  # Max tokens per completion (default: 2000)
  max_tokens: {{ .AIMaxTokens }}

# Jira
jira:
  # Base URL, e.g. https://yourcompany.atlassian.net
  url: "{{ .JiraURL }}"

  # Account email; falls back to JIRA_USERNAME
  username: "{{ .JiraUsername }}"

  # API token; falls back to JIRA_TOKEN
  token: ""

# GitHub
github:
  # API token; falls back to GITHUB_TOKEN
  token: ""

# Review behavior
review:
  # Keywords that flag leftover debugging or temporary code
  # fail_keywords: ["TODO", "FIXME", "HACK", "console.log", "print("]

  # Path to a file with extra review guidelines injected into AI prompts
  guidelines_file: "{{ .GuidelinesFile }}"

# Output
output:
  # Default format: console, markdown, json
  format: "{{ .OutputFormat }}"
`

type configTemplateData struct {
	DBPath         string
	AIProvider     string
	AIModel        string
	AIMaxTokens    int
	JiraURL        string
	JiraUsername   string
	GuidelinesFile string
	OutputFormat   string
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	// Build template data from current viper values
	data := configTemplateData{
		DBPath:         viper.GetString("db_path"),
		AIProvider:     viper.GetString("ai.provider"),
		AIModel:        viper.GetString("ai.model"),
		AIMaxTokens:    viper.GetInt("ai.max_tokens"),
		JiraURL:        viper.GetString("jira.url"),
		JiraUsername:   viper.GetString("jira.username"),
		GuidelinesFile: viper.GetString("review.guidelines_file"),
		OutputFormat:   viper.GetString("output.format"),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	// Create config directory
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
	Secret bool
}

var configKeys = []configKeyInfo{
	{Key: "db_path", EnvVar: "LGTM_DB_PATH"},
	{Key: "ai.provider", EnvVar: "LGTM_AI_PROVIDER"},
	{Key: "ai.model", EnvVar: "LGTM_AI_MODEL"},
	{Key: "ai.api_key", EnvVar: "LGTM_AI_API_KEY", Secret: true},
	{Key: "ai.max_tokens", EnvVar: "LGTM_AI_MAX_TOKENS"},
	{Key: "jira.url", EnvVar: "LGTM_JIRA_URL"},
	{Key: "jira.username", EnvVar: "LGTM_JIRA_USERNAME"},
	{Key: "jira.token", EnvVar: "LGTM_JIRA_TOKEN", Secret: true},
	{Key: "github.token", EnvVar: "LGTM_GITHUB_TOKEN", Secret: true},
	{Key: "review.guidelines_file", EnvVar: "LGTM_REVIEW_GUIDELINES_FILE"},
	{Key: "output.format", EnvVar: "LGTM_OUTPUT_FORMAT"},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		if k.Secret {
			val = maskSecret(viper.GetString(k.Key))
		}
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-24s %v  %s\n", k.Key, val, source)
	}

	return nil
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set, set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'lgtm config init' first)", cfgPath)
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
