package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"clashsub/internal/readme"
	"clashsub/internal/section"
)

func newReadmeCommand(ctx *commandContext) *cobra.Command {
	var preview bool
	var width int

	cmd := &cobra.Command{
		Use:   "readme",
		Short: "Rebuild the README listing from configs already in the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			files, err := readme.ScanOutputDir(cfg.OutputDir())
			if err != nil {
				return fmt.Errorf("scan output directory: %w", err)
			}
			content := readme.NewListing(cfg, files).Markdown()
			out := cmd.OutOrStdout()

			if preview {
				rendered, err := readme.Preview(content, width, shouldColorize(out))
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			}

			if !cfg.Readme.Enabled {
				return errors.New("readme updates are disabled (readme.enabled = false)")
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s configs in %s; README left unchanged", readme.ConfigExt, cfg.OutputDir())
			}
			if err := section.ReplaceFile(cfg.ReadmePath(), cfg.Readme.StartMarker, cfg.Readme.EndMarker, content); err != nil {
				return fmt.Errorf("update README: %w", err)
			}
			fmt.Fprintf(out, "README updated with %d links\n", len(files))
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Render the section to the terminal instead of writing the README")
	cmd.Flags().IntVar(&width, "width", 100, "Wrap width for --preview")
	return cmd
}
