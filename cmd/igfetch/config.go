package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"igfetch/pkg/config"
	"igfetch/pkg/ui"
)

const defaultConfigPath = ".igfetch.yaml"

const exampleConfig = `# igfetch configuration file
#
# Environment variables override this file:
#   IGFETCH_USER_AGENT, IGFETCH_OUTPUT_DIR, IGFETCH_DOWNLOAD_TIMEOUT,
#   IGFETCH_LOG_LEVEL, IGFETCH_LOG_FILE
# Command line flags override both.

instagram:
  # User-Agent sent with the lookup and media requests
  user_agent: %q

output:
  # Directory media files are written to
  base_directory: "."

download:
  # Timeout for each network request
  timeout: 30s

logging:
  # debug, info, warn, error or disabled
  level: "warn"

  # Log file path (optional)
  # Leave empty to log to stderr
  file: ""
`

func newConfigCmd(opts *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage igfetch configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (IGFETCH_*)
  - .env files (./.env, $HOME/.igfetch.env)
  - Configuration file
  - Default values`,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Long: `Create an example configuration file with all available options.

The file is created as '.igfetch.yaml' in the current directory unless a
different path is given with the --config flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Show the configuration that a fetch would use, after merging every source.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, opts)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Output and log directory accessibility`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(opts)
		},
	}

	configCmd.AddCommand(initCmd, showCmd, validateCmd)
	return configCmd
}

func runConfigInit(opts *globalOptions, force bool) error {
	configPath := opts.configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	content := fmt.Sprintf(exampleConfig, config.DefaultUserAgent)
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	ui.PrintInfo("Next step", "igfetch config validate --config "+configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := config.Load(opts.configFile, opts.flags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	source := opts.configFile
	if source == "" {
		source = config.FindConfigFile()
	}
	if source == "" {
		source = "(none found)"
	}

	ui.PrintBanner()
	ui.PrintHighlight("Current Configuration")
	ui.PrintInfo("Configuration file", source)
	fmt.Fprintln(ui.Output)
	fmt.Fprint(ui.Output, string(data))
	return nil
}

func runConfigValidate(opts *globalOptions) error {
	configPath := opts.configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	if configPath == "" {
		return fmt.Errorf("no configuration file found, specify one with --config")
	}

	ui.PrintInfo("Validating configuration", configPath)

	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return err
	}

	var problems []string
	if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			ui.PrintWarning("Log directory does not exist and will be created", logDir)
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors")
		for _, p := range problems {
			fmt.Fprintf(ui.Output, "  - %s\n", p)
		}
		return fmt.Errorf("configuration is not usable")
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Fprintln(ui.Output, "\nConfiguration summary:")
	fmt.Fprintf(ui.Output, "  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Fprintf(ui.Output, "  Timeout: %s\n", cfg.Download.Timeout)
	fmt.Fprintf(ui.Output, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
