package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"znkr.io/xmldiff/output"
	"znkr.io/xmldiff/server"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve BASE UPDATED",
		Short: "Serve the diff via HTTP and update it whenever one of the inputs changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			docs, err := loadDocs(cfg, args[0], args[1])
			if err != nil {
				return err
			}

			s, err := server.Run(addr, docs)
			if err != nil {
				return err
			}
			defer s.Shutdown(context.Background())
			log.Printf("Now serving at http://%s, press Ctrl-C to shut down", s.Addr())

			return watchFiles(args, s.Error(), func() error {
				docs, err := loadDocs(cfg, args[0], args[1])
				if err != nil {
					return err
				}
				s.ReplaceDocs(docs)
				return nil
			})
		},
	}
	addDiffFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")
	return cmd
}

func loadDocs(cfg *config, base, updated string) (server.Docs, error) {
	files, err := renderViews(cfg, base, updated)
	if err != nil {
		return nil, err
	}
	docs := make(server.Docs, len(files)+1)
	for _, f := range files {
		b := f.Data
		if cfg.Minify {
			if b, err = output.Minify(f.MediaType, b); err != nil {
				return nil, err
			}
		}
		doc := server.Doc{MediaType: f.MediaType, Body: b}
		docs["/"+f.Path] = doc
		if f.Path == "index.html" {
			docs["/"] = doc
		}
	}
	return docs, nil
}
