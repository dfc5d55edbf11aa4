package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clashsub/internal/config"
	"clashsub/internal/fileutil"
)

const (
	scaffoldTemplate = `proxies: []
proxy-providers:
  proxy:
    type: http
    url: %%URL_PLACEHOLDER%%
    path: %%PATH_PLACEHOLDER%%
    interval: 3600
    health-check:
      enable: true
      url: https://www.gstatic.com/generate_204
      interval: 300
proxy-groups:
  - name: PROXY
    type: select
    use:
      - proxy
rules:
  - MATCH,PROXY
`
	scaffoldSubscriptions = `# One subscription per line: URL or "URL, name".
# Lines starting with # are ignored.
`
	scaffoldFormat = "https://api.example.com/sub?target=clash&url=[URL]\n"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool
	var scaffold bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveInitTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			if scaffold {
				if err := scaffoldWorkspace(out, target); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "Set repository.slug (or export GITHUB_REPOSITORY) before running clashsub.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	cmd.Flags().BoolVar(&scaffold, "scaffold", false, "Also create starter template, subscriptions, format and README files")
	return cmd
}

func resolveInitTarget(targetPath string) (string, error) {
	target := strings.TrimSpace(targetPath)
	if target == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return defaultPath, nil
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return expanded, nil
}

// scaffoldWorkspace writes starter inputs next to the config file using the
// sample's default names. Existing files are left alone.
func scaffoldWorkspace(out io.Writer, configPath string) error {
	cfg := config.Default()
	cfg.Paths.Root = filepath.Dir(configPath)
	readme := fmt.Sprintf("# Clash subscriptions\n\n%s\n%s\n", cfg.Readme.StartMarker, cfg.Readme.EndMarker)

	files := []struct {
		path    string
		content string
	}{
		{cfg.TemplatePath(), scaffoldTemplate},
		{cfg.SubscriptionsPath(), scaffoldSubscriptions},
		{cfg.FormatPath(), scaffoldFormat},
		{cfg.ReadmePath(), readme},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Fprintf(out, "Kept existing %s\n", f.path)
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check %s: %w", f.path, err)
		}
		if err := fileutil.WriteFileAtomic(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
		fmt.Fprintf(out, "Wrote %s\n", f.path)
	}
	return nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Workspace root: %s\n", cfg.Paths.Root)
			fmt.Fprintf(out, "Repository: %s@%s\n", cfg.Repository.Slug, cfg.Repository.Branch)
			fmt.Fprintf(out, "Template strategy: %s\n", cfg.Template.Strategy)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
