// Command xmldiff compares two XML documents and writes their structural diff.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"znkr.io/xmldiff"
	"znkr.io/xmldiff/encode"
	"znkr.io/xmldiff/output"
)

// errDiffer is returned with --exit-code if the documents differ.
var errDiffer = errors.New("documents differ")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xmldiff [flags] BASE UPDATED [OUT|-]",
		Short: "Structural diff for XML documents",
		Long: `Compares the XML documents BASE and UPDATED and writes the diff to OUT, or to stdout
if OUT is omitted or "-".`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := "-"
			if len(args) == 3 {
				out = args[2]
			}
			differs, err := writeDiff(cfg, args[0], args[1], out)
			if err != nil {
				return err
			}
			if differs && cfg.ExitCode {
				return errDiffer
			}
			return nil
		},
	}
	addDiffFlags(rootCmd)
	rootCmd.Flags().Bool("exit-code", false, "exit with status 1 if the documents differ")

	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBundleCmd())
	rootCmd.AddCommand(newListCmd())
	return rootCmd
}

// writeDiff writes the diff of the files base and updated to out. The output file is only
// replaced if the diff was written successfully.
func writeDiff(cfg *config, base, updated, out string) (bool, error) {
	bf, err := os.Open(base)
	if err != nil {
		return false, fmt.Errorf("opening base: %v", err)
	}
	defer bf.Close()
	uf, err := os.Open(updated)
	if err != nil {
		return false, fmt.Errorf("opening updated: %v", err)
	}
	defer uf.Close()

	sink, err := output.Create(out)
	if err != nil {
		return false, err
	}

	var w io.Writer = sink
	var buf bytes.Buffer
	if cfg.Minify {
		w = &buf
	}
	differs, err := xmldiff.Diff(bf, uf, w, cfg.options()...)
	if err != nil {
		sink.Abort()
		return false, err
	}
	if !differs && !cfg.EmitIdentical {
		// Nothing was written, leave out alone.
		sink.Abort()
		return differs, nil
	}

	if cfg.Minify {
		enc, err := encode.Registry.New(cfg.Encoder)
		if err != nil {
			sink.Abort()
			return false, err
		}
		b, err := output.Minify(enc.MediaType(), buf.Bytes())
		if err != nil {
			sink.Abort()
			return false, err
		}
		if _, err := sink.Write(b); err != nil {
			sink.Abort()
			return false, fmt.Errorf("writing output: %v", err)
		}
	}
	return differs, sink.Commit()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiffer) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
