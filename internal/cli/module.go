package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/internal/wizard"
	"github.com/mithrel/tutor/pkg/api"
)

func newModuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Plan course modules",
	}
	cmd.AddCommand(newModulePlanCmd())
	return cmd
}

func newModulePlanCmd() *cobra.Command {
	var (
		from     string
		moduleID string
		override api.ModuleRequest
		of       outputFlags
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the lessons of one module",
		Long: `Plan the lessons of one module.

With --from the module form is filled from a course draft and the module
picked with --module; the remaining flags override single fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			sess := session.New("")
			if from != "" {
				d, err := loadDraft(cmd, from, api.KindCourse)
				if err != nil {
					return err
				}
				if moduleID == "" {
					return fmt.Errorf("--module is required with --from")
				}
				if sess, err = wizard.Resume(d); err != nil {
					return err
				}
				if err := sess.SelectModule(moduleID); err != nil {
					return err
				}
			}
			req := sess.ModuleForm
			setIf(&req.CourseTitle, override.CourseTitle)
			setIf(&req.CourseDescription, override.CourseDescription)
			setIf(&req.ModuleTitle, override.ModuleTitle)
			setIf(&req.ModuleSummary, override.ModuleSummary)

			d, err := app.Wizard.PlanModule(cmd.Context(), sess, req)
			if err != nil {
				return fmt.Errorf("plan module: %w", err)
			}
			return emitResult(cmd, of, *sess.Module, d)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "course draft id (or unique prefix)")
	cmd.Flags().StringVar(&moduleID, "module", "", "module id from the course outline")
	cmd.Flags().StringVar(&override.CourseTitle, "course-title", "", "course title")
	cmd.Flags().StringVar(&override.CourseDescription, "course-description", "", "course description")
	cmd.Flags().StringVar(&override.ModuleTitle, "title", "", "module title")
	cmd.Flags().StringVar(&override.ModuleSummary, "summary", "", "module summary")
	_ = cmd.RegisterFlagCompletionFunc("from", completeDraftIDs(api.KindCourse))
	addOutputFlags(cmd, &of, "", resultModes...)
	return cmd
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
