package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/config"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/storage"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [data-location]",
	Short: "Initialize a timeboard workspace",
	Long: `Create .timeboard/ with an editable policy.yaml and, when a file path or
http(s) URL is given, a source.yaml pointing at the export.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		out := cmd.OutOrStdout()
		policyPath, err := repo.ResolvePath(storage.PolicyFile)
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(policyPath); statErr == nil && !initForce {
			_, _ = fmt.Fprintf(out, "Keeping existing %s\n", policyPath)
		} else {
			if err := repo.SavePolicy(board.DefaultPolicy()); err != nil {
				return fmt.Errorf("failed to write policy: %w", err)
			}
			_, _ = fmt.Fprintf(out, "Wrote %s\n", policyPath)
		}

		if len(args) == 1 {
			cfg, err := config.LoadSourceConfig(root)
			if err != nil {
				return err
			}
			if cfg == nil {
				cfg = &config.SourceConfig{}
			}
			cfg.Location = args[0]
			if err := config.SaveSourceConfig(root, cfg); err != nil {
				return fmt.Errorf("failed to write source config: %w", err)
			}
			_, _ = fmt.Fprintf(out, "Data source set to %s\n", args[0])
		}

		_, _ = fmt.Fprintf(out, "Successfully initialized timeboard workspace in %s\n", root)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing policy.yaml with the defaults")
	RootCmd.AddCommand(initCmd)
}
