package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/doc-matcher/internal/render"
)

// Actual version can be specified in build command.
var version = "unknown"

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	APIURL  string `json:"api_url" yaml:"api_url"`
	AI      bool   `json:"ai_enabled" yaml:"ai_enabled"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the backend it talks to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, err := getConfig()
		if err != nil {
			return err
		}
		return printVersion(cmd.OutOrStdout(), config)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer, config *Config) error {
	info := versionInfo{
		Version: version,
		APIURL:  config.APIURL,
		AI:      config.AI != nil && config.AI.Enabled,
	}

	if render.ValidFormat(config.Output) && !strings.EqualFold(config.Output, render.FormatCards) {
		return render.Encode(w, config.Output, info)
	}

	_, err := fmt.Fprintf(w, "%s version: %s\napi url: %s\nai enabled: %t\n", app, info.Version, info.APIURL, info.AI)
	return err
}
