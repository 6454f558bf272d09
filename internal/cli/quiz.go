package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/pkg/api"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate lesson quizzes",
	}
	cmd.AddCommand(newQuizCreateCmd())
	return cmd
}

func newQuizCreateCmd() *cobra.Command {
	var (
		lf lessonFlags
		of outputFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a quiz for one lesson",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			sess, err := lf.session(cmd, api.KindModule, api.KindLesson)
			if err != nil {
				return err
			}
			d, err := app.Wizard.CreateQuiz(cmd.Context(), sess, lf.apply(sess.QuizForm))
			if err != nil {
				return fmt.Errorf("create quiz: %w", err)
			}
			return emitResult(cmd, of, *sess.Quiz, d)
		},
	}
	lf.register(cmd, "module or lesson")
	_ = cmd.RegisterFlagCompletionFunc("from", completeDraftIDs(api.KindModule, api.KindLesson))
	addOutputFlags(cmd, &of, "", resultModes...)
	return cmd
}
