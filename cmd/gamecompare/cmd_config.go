package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configFileName = ".gamecompare.yaml"

const exampleConfig = `# gamecompare configuration
port: "5000"
proxy_url: http://localhost:5000
http_timeout: 10s
page_size: 5

# IGDB credentials (Twitch developer application)
twitch:
  client_id: ""
  client_secret: ""

rawg:
  api_key: ""

# Optional relay for Steam storefront searches, e.g. https://api.allorigins.win/get
store:
  relay_url: ""

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json
`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the active configuration with secrets masked",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return showConfig()
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write an example " + configFileName + " in the current directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return initConfig(configFileName)
			},
		},
	)
	return cmd
}

func showConfig() error {
	redacted := cfg.Redacted()
	if outputCfg.JSON {
		PrintResult(redacted)
		return nil
	}

	data, err := yaml.Marshal(redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, _ = fmt.Fprintln(stdout, "# Active Configuration")
	_, _ = fmt.Fprint(stdout, string(data))
	return nil
}

func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if outputCfg.JSON {
		PrintResult(map[string]string{"path": path, "status": "created"})
	} else {
		PrintInfo("Created config file: %s\n", path)
	}
	return nil
}
