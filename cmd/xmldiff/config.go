package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"znkr.io/xmldiff"
	"znkr.io/xmldiff/encode"
	"znkr.io/xmldiff/filter"
	"znkr.io/xmldiff/match"
)

// config holds the diff settings. Every field can be set by flag, by XMLDIFF_* environment
// variable, or in the file passed with --config, in that order of precedence.
type config struct {
	Encoder       string `mapstructure:"encoder"`
	Filter        string `mapstructure:"filter"`
	Matcher       string `mapstructure:"matcher"`
	ChunkSizes    []int  `mapstructure:"chunk-sizes"`
	EmitIdentical bool   `mapstructure:"emit-identical"`
	Minify        bool   `mapstructure:"minify"`
	ExitCode      bool   `mapstructure:"exit-code"`
}

func addDiffFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringP("encoder", "e", encode.Default, "diff encoder, see the list command")
	fs.StringP("filter", "f", filter.Default, "input filter, see the list command")
	fs.String("matcher", xmldiff.DefaultMatcher, "matcher, see the list command")
	fs.IntSlice("chunk-sizes", match.DefaultChunkSizes, "chunk sizes used by the greedy matcher")
	fs.Bool("emit-identical", true, "write a diff even if the documents are identical")
	fs.Bool("minify", false, "minify XML and HTML output")
	fs.String("config", "", "configuration file")
}

func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix("xmldiff")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %v", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %v", err)
		}
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %v", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// check resolves all names, so that configuration errors are reported before any I/O happens.
func (cfg *config) check() error {
	if _, err := encode.Registry.Resolve(cfg.Encoder); err != nil {
		return err
	}
	if _, err := filter.Registry.Resolve(cfg.Filter); err != nil {
		return err
	}
	if _, err := xmldiff.Matchers.Resolve(cfg.Matcher); err != nil {
		return err
	}
	return nil
}

func (cfg *config) options() []xmldiff.Option {
	return []xmldiff.Option{
		xmldiff.WithEncoder(cfg.Encoder),
		xmldiff.WithFilter(cfg.Filter),
		xmldiff.WithMatcher(cfg.Matcher),
		xmldiff.WithChunkSizes(cfg.ChunkSizes...),
		xmldiff.WithEmitIdentical(cfg.EmitIdentical),
	}
}
