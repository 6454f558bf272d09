package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/internal/backend"
	"github.com/mithrel/tutor/internal/present/format"
	"github.com/mithrel/tutor/pkg/api"
)

func newHealthCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the course backend is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			h, err := app.Backend.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %s", app.Backend.BaseURL(), backend.Detail(err))
			}
			if asJSON {
				return format.WriteJSON(cmd.OutOrStdout(), h, false)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tapi %s\tmodel %s\n", app.Backend.BaseURL(), h.Status, h.APIVersion, h.Model)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw health response")
	return cmd
}

func newFeedbackCmd() *cobra.Command {
	var fb api.Feedback
	cmd := &cobra.Command{
		Use:   "feedback <draft-id>",
		Short: "Send a rating for generated content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			d, err := loadDraft(cmd, args[0])
			if err != nil {
				return err
			}
			fb.ContentID = d.ID
			fb.ContentType = string(d.Kind)
			res, err := app.Backend.SendFeedback(cmd.Context(), fb)
			if err != nil {
				return fmt.Errorf("send feedback: %s", backend.Detail(err))
			}
			msg := strings.TrimSpace(res.Message)
			if msg == "" {
				msg = res.Status
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", msg, res.FeedbackID)
			return err
		},
	}
	cmd.Flags().IntVar(&fb.Rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&fb.Feedback, "comment", "", "free-form feedback")
	cmd.Flags().StringVar(&fb.ImprovementSuggestions, "suggest", "", "improvement suggestions")
	_ = cmd.MarkFlagRequired("rating")
	cmd.ValidArgsFunction = completeDraftIDs()
	return cmd
}

func newExportCmd() *cobra.Command {
	var exportFormat string
	cmd := &cobra.Command{
		Use:   "export <course-id>",
		Short: "Ask the backend to export a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			res, err := app.Backend.ExportCourse(cmd.Context(), args[0], exportFormat)
			if err != nil {
				return fmt.Errorf("export course: %s", backend.Detail(err))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return err
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "md", "md|html|pdf")
	registerChoices(cmd, "format", []string{"md", "html", "pdf"})
	return cmd
}
