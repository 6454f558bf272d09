package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/internal/wizard"
	"github.com/mithrel/tutor/pkg/api"
)

func newLessonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Generate lesson content",
	}
	cmd.AddCommand(newLessonCreateCmd())
	return cmd
}

// lessonFlags are shared by lesson create and quiz create.
type lessonFlags struct {
	from     string
	lessonID string
	override api.LessonRequest
}

func (lf *lessonFlags) register(cmd *cobra.Command, fromKinds string) {
	cmd.Flags().StringVar(&lf.from, "from", "", fromKinds+" draft id (or unique prefix)")
	cmd.Flags().StringVar(&lf.lessonID, "lesson", "", "lesson id from the module outline")
	cmd.Flags().StringVar(&lf.override.CourseTitle, "course-title", "", "course title")
	cmd.Flags().StringVar(&lf.override.ModuleTitle, "module-title", "", "module title")
	cmd.Flags().StringVar(&lf.override.LessonTitle, "title", "", "lesson title")
	cmd.Flags().StringVar(&lf.override.LessonObjective, "objective", "", "lesson objective")
}

// session builds the session the step runs on. A module draft needs
// --lesson; a lesson draft (quiz only) already carries its form.
func (lf *lessonFlags) session(cmd *cobra.Command, kinds ...api.DraftKind) (*session.Session, error) {
	if lf.from == "" {
		return session.New(""), nil
	}
	d, err := loadDraft(cmd, lf.from, kinds...)
	if err != nil {
		return nil, err
	}
	sess, err := wizard.Resume(d)
	if err != nil {
		return nil, err
	}
	if d.Kind == api.KindModule {
		if lf.lessonID == "" {
			return nil, fmt.Errorf("--lesson is required with a module draft")
		}
		if err := sess.SelectLesson(lf.lessonID); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (lf *lessonFlags) apply(req api.LessonRequest) api.LessonRequest {
	setIf(&req.CourseTitle, lf.override.CourseTitle)
	setIf(&req.ModuleTitle, lf.override.ModuleTitle)
	setIf(&req.LessonTitle, lf.override.LessonTitle)
	setIf(&req.LessonObjective, lf.override.LessonObjective)
	return req
}

func newLessonCreateCmd() *cobra.Command {
	var (
		lf lessonFlags
		of outputFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate the content of one lesson",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			sess, err := lf.session(cmd, api.KindModule)
			if err != nil {
				return err
			}
			d, err := app.Wizard.CreateLesson(cmd.Context(), sess, lf.apply(sess.LessonForm))
			if err != nil {
				return fmt.Errorf("create lesson: %w", err)
			}
			return emitResult(cmd, of, *sess.Lesson, d)
		},
	}
	lf.register(cmd, "module")
	_ = cmd.RegisterFlagCompletionFunc("from", completeDraftIDs(api.KindModule))
	addOutputFlags(cmd, &of, "", resultModes...)
	return cmd
}
