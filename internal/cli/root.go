package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/tutor/internal/config"
	"github.com/mithrel/tutor/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// noApp marks commands that run without config or a drafts store.
var noApp = map[string]string{"app": "none"}

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// flagOverrides maps flag names onto config keys. Only flags defined on the
// running command and set by the user apply.
var flagOverrides = map[string]string{
	"backend":   "backend.url",
	"log-level": "log.level",
	"db":        "db_url",
	"engine":    "render.engine",
	"sanitize":  "render.sanitize",
	"width":     "render.width",
	"listen":    "http_addr",
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "tutor",
		Short:         "tutor: plan courses, generate lessons and quizzes, render lesson text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["app"] == "none" {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, flagOverrides)
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := lookupApp(cmd); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml|yaml)")
	cmd.PersistentFlags().String("backend", "", "backend base URL (overrides backend.url)")
	cmd.PersistentFlags().String("log-level", "", "debug|info|warn|error (overrides log.level)")
	cmd.PersistentFlags().String("db", "", "drafts store DSN (overrides db_url)")

	cmd.AddCommand(newCourseCmd())
	cmd.AddCommand(newModuleCmd())
	cmd.AddCommand(newLessonCmd())
	cmd.AddCommand(newQuizCmd())
	cmd.AddCommand(newFormatCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newDraftCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newFeedbackCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func lookupApp(cmd *cobra.Command) (*wire.App, bool) {
	if cmd.Context() == nil {
		return nil, false
	}
	app, ok := cmd.Context().Value(appKey).(*wire.App)
	return app, ok
}

func getApp(cmd *cobra.Command) *wire.App {
	app, ok := lookupApp(cmd)
	if !ok {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return app
}
