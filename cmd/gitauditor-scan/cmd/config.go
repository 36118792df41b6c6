package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Context config types. The file mirrors the kubeconfig layout so
// developers can keep credentials for several GitAuditor deployments.

type ContextConfig struct {
	APIVersion     string         `yaml:"apiVersion"`
	Kind           string         `yaml:"kind"`
	CurrentContext string         `yaml:"current-context"`
	Contexts       []NamedContext `yaml:"contexts"`
}

type NamedContext struct {
	Name    string        `yaml:"name"`
	Context ContextDetail `yaml:"context"`
}

type ContextDetail struct {
	APIURL    string `yaml:"api-url"`
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"token-file,omitempty"`
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gitauditor")
}

func configPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}

func loadContextConfig() (*ContextConfig, error) {
	data, err := os.ReadFile(configPath())
	if err != nil {
		return nil, err
	}
	var cfg ContextConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func saveContextConfig(cfg *ContextConfig) error {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "cli.gitauditor.io/v1"
	}
	if cfg.Kind == "" {
		cfg.Kind = "Config"
	}

	if err := os.MkdirAll(configDir(), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0600)
}

func (c *ContextConfig) GetContext(name string) *NamedContext {
	for i := range c.Contexts {
		if c.Contexts[i].Name == name {
			return &c.Contexts[i]
		}
	}
	return nil
}

func (c *ContextConfig) SetContext(name string, ctx ContextDetail) {
	for i := range c.Contexts {
		if c.Contexts[i].Name == name {
			c.Contexts[i].Context = ctx
			return
		}
	}
	c.Contexts = append(c.Contexts, NamedContext{Name: name, Context: ctx})
}

// Config subcommands

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

func init() {
	setCtxCmd := &cobra.Command{
		Use:   "set-context NAME",
		Short: "Create or update a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			apiURL, _ := cmd.Flags().GetString("api-url")
			token, _ := cmd.Flags().GetString("token")
			tokenFile, _ := cmd.Flags().GetString("token-file")

			if apiURL == "" {
				return fmt.Errorf("--api-url is required")
			}
			if token == "" && tokenFile == "" {
				return fmt.Errorf("--token or --token-file is required")
			}

			cfg, err := loadContextConfig()
			if err != nil {
				cfg = &ContextConfig{}
			}

			cfg.SetContext(name, ContextDetail{
				APIURL:    apiURL,
				Token:     token,
				TokenFile: tokenFile,
			})

			if cfg.CurrentContext == "" {
				cfg.CurrentContext = name
			}

			if err := saveContextConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Printf("Context %q set.\n", name)
			if cfg.CurrentContext == name {
				fmt.Printf("Current context is %q.\n", name)
			}
			return nil
		},
	}
	setCtxCmd.Flags().String("api-url", "", "API URL")
	setCtxCmd.Flags().String("token", "", "API token")
	setCtxCmd.Flags().String("token-file", "", "Path to API token file")

	useCtxCmd := &cobra.Command{
		Use:   "use-context NAME",
		Short: "Switch to a different context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := loadContextConfig()
			if err != nil {
				return fmt.Errorf("no config found: %w", err)
			}

			if cfg.GetContext(name) == nil {
				return fmt.Errorf("context %q not found", name)
			}

			cfg.CurrentContext = name
			if err := saveContextConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Printf("Switched to context %q.\n", name)
			return nil
		},
	}

	getCtxCmd := &cobra.Command{
		Use:   "get-contexts",
		Short: "List all configured contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadContextConfig()
			if err != nil {
				return fmt.Errorf("no config found: %w", err)
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				// Tokens never leave the config file
				type listed struct {
					Name    string `json:"name"`
					APIURL  string `json:"api_url"`
					Current bool   `json:"current"`
				}
				out := make([]listed, 0, len(cfg.Contexts))
				for _, c := range cfg.Contexts {
					out = append(out, listed{
						Name:    c.Name,
						APIURL:  c.Context.APIURL,
						Current: c.Name == cfg.CurrentContext,
					})
				}
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			for _, c := range cfg.Contexts {
				marker := " "
				if c.Name == cfg.CurrentContext {
					marker = "*"
				}
				fmt.Printf("%s %s\t%s\n", marker, c.Name, c.Context.APIURL)
			}
			return nil
		},
	}
	getCtxCmd.Flags().Bool("json", false, "Output as JSON")

	curCtxCmd := &cobra.Command{
		Use:   "current-context",
		Short: "Show the current context",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadContextConfig()
			if err != nil {
				return fmt.Errorf("no config found: %w", err)
			}
			if cfg.CurrentContext == "" {
				fmt.Fprintln(os.Stderr, "No current context set.")
				return nil
			}
			fmt.Println(cfg.CurrentContext)
			return nil
		},
	}

	configCmd.AddCommand(setCtxCmd, useCtxCmd, getCtxCmd, curCtxCmd)
}
