package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/tutor/internal/present"
	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

var (
	formatChoices     = []string{"text-heavy", "visual", "interactive", "balanced"}
	difficultyChoices = []string{"beginner", "intermediate", "advanced", "expert"}
	styleChoices      = []string{"academic", "conversational", "technical", "creative", "business"}
	resultModes       = []string{"plain", "pretty", "json", "html"}
)

func newCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Plan courses",
	}
	cmd.AddCommand(newCoursePlanCmd())
	return cmd
}

func newCoursePlanCmd() *cobra.Command {
	var (
		req            api.CourseRequest
		objectives     []string
		objectivesFile string
		format         string
		difficulty     string
		style          string
		of             outputFlags
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a course outline and save it as a draft",
		Example: `  tutor course plan --title "Go basics" --description "Intro to Go" \
    --audience "backend developers" --time "4 weeks" \
    --objective "write a CLI" --objective "test it"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if objectivesFile != "" {
				text, err := readInput(cmd, objectivesFile)
				if err != nil {
					return err
				}
				objectives = append(objectives, api.SplitObjectives(text)...)
			}
			req.LearningObjectives = objectives
			req.PreferredFormat = api.ContentFormat(format)
			req.DifficultyLevel = api.DifficultyLevel(difficulty)
			req.ContentStyle = api.ContentStyle(style)

			sess := session.New("")
			d, err := app.Wizard.PlanCourse(cmd.Context(), sess, req)
			if err != nil {
				return fmt.Errorf("plan course: %w", err)
			}
			return emitResult(cmd, of, *sess.Course, d)
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "course title")
	cmd.Flags().StringVar(&req.Description, "description", "", "course description")
	cmd.Flags().StringVar(&req.TargetAudience, "audience", "", "target audience")
	cmd.Flags().StringVar(&req.TimeAvailable, "time", "", "time available, e.g. \"4 weeks\"")
	cmd.Flags().StringArrayVar(&objectives, "objective", nil, "learning objective (repeatable)")
	cmd.Flags().StringVar(&objectivesFile, "objectives-file", "", "file with one objective per line (- for stdin)")
	cmd.Flags().StringVar(&format, "format", "balanced", "preferred format: "+strings.Join(formatChoices, "|"))
	cmd.Flags().StringVar(&difficulty, "difficulty", "intermediate", "difficulty: "+strings.Join(difficultyChoices, "|"))
	cmd.Flags().StringVar(&style, "style", "conversational", "content style: "+strings.Join(styleChoices, "|"))
	registerChoices(cmd, "format", formatChoices)
	registerChoices(cmd, "difficulty", difficultyChoices)
	registerChoices(cmd, "style", styleChoices)
	addOutputFlags(cmd, &of, "", resultModes...)
	return cmd
}

func registerChoices(cmd *cobra.Command, flag string, choices []string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return choices, cobra.ShellCompDirectiveNoFileComp
	})
}

// emitResult writes a generation result to stdout and the saved draft id to stderr.
func emitResult(cmd *cobra.Command, of outputFlags, v any, d api.Draft) error {
	opts, err := of.options(cmd)
	if err != nil {
		return err
	}
	if err := present.RenderResult(cmd.OutOrStdout(), v, opts); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "saved %s draft %s\n", d.Kind, api.ShortID(d.ID))
	return nil
}

// readInput reads a file, or stdin when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
