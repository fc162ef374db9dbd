package commands

import (
	"github.com/spf13/cobra"

	"github.com/reweave/reweave/internal/app"
)

func (c *CLI) newRewriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite [modules...]",
		Short: "Rewrite the given compiled modules in place",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			refs, _ := cmd.Flags().GetStringArray("ref")
			refDirs, _ := cmd.Flags().GetStringArray("ref-dir")
			outDir, _ := cmd.Flags().GetString("out-dir")
			jobs, _ := cmd.Flags().GetInt("jobs")

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				Refs:    refs,
				RefDirs: refDirs,
				OutDir:  outDir,
				Jobs:    jobs,
			})
		},
	}
	cmd.Flags().StringArrayP("ref", "r", nil, "Reference path applied to every module (repeatable)")
	cmd.Flags().StringArray("ref-dir", nil, "Directory whose libraries are added as references (repeatable)")
	cmd.Flags().StringP("out-dir", "o", "", "Write rewritten modules here instead of in place")
	cmd.Flags().IntP("jobs", "j", 0, "Number of modules processed concurrently (0 = CPU count)")
	return cmd
}
