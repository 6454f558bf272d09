package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/internal/present"
)

type outputFlags struct {
	mode      string
	noHeaders bool
	indent    bool
}

// addOutputFlags registers --output and friends; modes limits completion
// and validation.
func addOutputFlags(cmd *cobra.Command, of *outputFlags, def string, modes ...string) {
	cmd.Flags().StringVarP(&of.mode, "output", "o", def, "output mode: "+strings.Join(modes, "|"))
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().BoolVar(&of.noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	cmd.Flags().BoolVar(&of.indent, "indent", false, "indent JSON output")
}

// options resolves the flags against the app config. An empty mode picks
// pretty on a terminal and plain otherwise.
func (of outputFlags) options(cmd *cobra.Command) (present.Options, error) {
	app := getApp(cmd)
	mode := present.DefaultMode(cmd.OutOrStdout())
	if of.mode != "" {
		m, ok := present.ParseMode(strings.ToLower(of.mode))
		if !ok {
			return present.Options{}, fmt.Errorf("invalid --output: %s", of.mode)
		}
		mode = m
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: of.indent,
		Headers:    !of.noHeaders,
		Width:      app.Cfg.GetInt("render.width"),
		Renderer:   app.Renderer,
	}, nil
}
