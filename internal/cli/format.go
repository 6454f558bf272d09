package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/internal/present/format"
	"github.com/mithrel/tutor/internal/render"
)

func newFormatCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Render lesson text as HTML",
		Long: `Render lesson text as HTML.

Reads the file, or stdin when it is omitted or "-". The staged engine
turns blank-line separated blocks into paragraphs, "# " lines into
headings, "- " and "* " lines into lists and **text** into bold.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			in, err := readInput(cmd, argOrEmpty(args))
			if err != nil {
				return err
			}
			out, err := app.Renderer.Render(in)
			if err != nil {
				return err
			}
			if asJSON {
				return format.WriteJSON(cmd.OutOrStdout(), map[string]string{"html": out}, false)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().String("engine", "", "staged|markdown (overrides render.engine)")
	cmd.Flags().Bool("sanitize", true, "strip HTML outside the lesson subset (overrides render.sanitize)")
	cmd.Flags().BoolVar(&asJSON, "json", false, `print {"html": ...} instead of bare HTML`)
	registerChoices(cmd, "engine", []string{string(render.EngineStaged), string(render.EngineMarkdown)})
	return cmd
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Preview lesson text in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			in, err := readInput(cmd, argOrEmpty(args))
			if err != nil {
				return err
			}
			out, err := render.Terminal(in, app.Cfg.GetInt("render.width"))
			if err != nil {
				return err
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				_, err := io.WriteString(w, out)
				return err
			})
		},
	}
	cmd.Flags().Int("width", 0, "word wrap (overrides render.width)")
	return cmd
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
