package main

import (
	"log"

	"github.com/spf13/cobra"

	"znkr.io/xmldiff/output"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle BASE UPDATED OUT.tar",
		Short: "Write all renderings of the diff into a tar archive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			files, err := renderViews(cfg, args[0], args[1])
			if err != nil {
				return err
			}
			if err := output.Pack(args[2], files, cfg.Minify); err != nil {
				return err
			}
			log.Printf("Wrote %d files to %s", len(files), args[2])
			return nil
		},
	}
	addDiffFlags(cmd)
	return cmd
}
