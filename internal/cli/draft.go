package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/tutor/internal/config"
	"github.com/mithrel/tutor/internal/db"
	"github.com/mithrel/tutor/internal/editor"
	"github.com/mithrel/tutor/internal/present/tui"
	"github.com/mithrel/tutor/internal/util"
	"github.com/mithrel/tutor/internal/wire"
	"github.com/mithrel/tutor/pkg/api"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "draft",
		Aliases: []string{"drafts"},
		Short:   "Browse and edit stored generation results",
	}
	cmd.AddCommand(newDraftListCmd())
	cmd.AddCommand(newDraftShowCmd())
	cmd.AddCommand(newDraftFindCmd())
	cmd.AddCommand(newDraftEditCmd())
	cmd.AddCommand(newDraftRmCmd())
	return cmd
}

var draftKinds = []string{"course", "module", "lesson", "quiz"}

func newDraftListCmd() *cobra.Command {
	var (
		kind, since, until, sessionID string
		limit                         int
		of                            outputFlags
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			k, err := api.ParseDraftKind(kind)
			if err != nil {
				return err
			}
			from, to, err := util.TimeRange(since, until)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = app.Cfg.GetInt("drafts.page_size")
			}
			drafts, err := app.Store.Drafts.ListDrafts(cmd.Context(), db.ListQuery{
				Kind:      k,
				SessionID: sessionID,
				Since:     from,
				Until:     to,
				Limit:     limit,
			})
			if err != nil {
				return err
			}
			opts, err := of.options(cmd)
			if err != nil {
				return err
			}
			opts.Browse = tui.Hooks{Delete: app.Store.Drafts.DeleteDraft}
			return renderDrafts(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), drafts, opts)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only drafts of this kind: "+strings.Join(draftKinds, "|"))
	cmd.Flags().StringVar(&since, "since", "", "updated at or after (2h, 3d, 2w, 1mo, 2006-01-02, RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "updated at or before (same forms as --since)")
	cmd.Flags().StringVar(&sessionID, "session", "", "only drafts from this session")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum drafts to list (0 uses drafts.page_size)")
	registerChoices(cmd, "kind", draftKinds)
	addOutputFlags(cmd, &of, "", "plain", "pretty", "json", "ndjson", "tui")
	return cmd
}

func newDraftShowCmd() *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Show one draft",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDraftIDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDraft(cmd, args[0])
			if err != nil {
				return err
			}
			opts, err := of.options(cmd)
			if err != nil {
				return err
			}
			return renderDraft(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), d, opts)
		},
	}
	addOutputFlags(cmd, &of, "", "plain", "pretty", "json", "html")
	return cmd
}

func newDraftFindCmd() *cobra.Command {
	var (
		kind  string
		limit int
		of    outputFlags
	)
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find drafts by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			k, err := api.ParseDraftKind(kind)
			if err != nil {
				return err
			}
			all, err := app.Store.Drafts.ListDrafts(cmd.Context(), db.ListQuery{Kind: k})
			if err != nil {
				return err
			}
			opts, err := of.options(cmd)
			if err != nil {
				return err
			}
			return renderDrafts(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), util.RankDrafts(args[0], all, limit), opts)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only drafts of this kind")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum matches")
	registerChoices(cmd, "kind", draftKinds)
	addOutputFlags(cmd, &of, "", "plain", "json", "ndjson")
	return cmd
}

func newDraftEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "edit <id>",
		Short:             "Edit a draft in $EDITOR",
		Long:              "Lesson drafts open as lesson text; other kinds open as indented JSON.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDraftIDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			d, err := loadDraft(cmd, args[0])
			if err != nil {
				return err
			}
			body, err := editableBody(d)
			if err != nil {
				return err
			}
			path, err := editor.PathForDraft(d.ID)
			if err != nil {
				return err
			}
			out, changed, err := editor.OpenAt(path, []byte(editor.ComposeDraft(string(d.Kind), d.Title, body)))
			if err != nil {
				return err
			}
			if !changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			saved, err := applyEdit(cmd.Context(), app, d, string(out))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s draft %s\n", saved.Kind, api.ShortID(saved.ID))
			return nil
		},
	}
}

// editableBody is the text a user edits for d.
func editableBody(d api.Draft) (string, error) {
	if d.Kind == api.KindLesson {
		var l api.LessonContent
		if err := d.Decode(&l); err != nil {
			return "", err
		}
		return l.LessonContent, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, d.Payload, "", "  "); err != nil {
		return "", fmt.Errorf("draft %s payload: %w", d.ID, err)
	}
	return buf.String(), nil
}

// applyEdit parses editor output back into d and stores it.
func applyEdit(ctx context.Context, app *wire.App, d api.Draft, edited string) (api.Draft, error) {
	title, body := editor.ParseEditedDraft(edited)
	if title != "" {
		d.Title = title
	}
	var v any
	switch d.Kind {
	case api.KindLesson:
		v = api.LessonContent{LessonContent: body}
	case api.KindCourse:
		v = &api.CourseOutline{}
	case api.KindModule:
		v = &api.ModuleOutline{}
	case api.KindQuiz:
		v = &api.Quiz{}
	default:
		return api.Draft{}, fmt.Errorf("cannot edit %q draft", d.Kind)
	}
	if d.Kind != api.KindLesson {
		dec := json.NewDecoder(strings.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return api.Draft{}, fmt.Errorf("edited %s draft is not valid: %w", d.Kind, err)
		}
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return api.Draft{}, err
	}
	d.Payload = payload
	return app.Store.Drafts.PutDraft(ctx, d)
}

func newDraftRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <id>...",
		Aliases:           []string{"delete"},
		Short:             "Delete drafts",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDraftIDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			for _, arg := range args {
				id, err := resolveDraftID(cmd.Context(), app.Store, arg)
				if err != nil {
					return err
				}
				if err := app.Store.Drafts.DeleteDraft(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", api.ShortID(id))
			}
			return nil
		},
	}
}

func resolveDraftID(ctx context.Context, store *db.Store, arg string) (string, error) {
	id, err := store.Drafts.ResolveDraftID(ctx, arg)
	if errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("no draft matches %q", arg)
	}
	return id, err
}

// loadDraft resolves an id prefix and loads the draft. With kinds set the
// draft must be one of them.
func loadDraft(cmd *cobra.Command, arg string, kinds ...api.DraftKind) (api.Draft, error) {
	app := getApp(cmd)
	id, err := resolveDraftID(cmd.Context(), app.Store, arg)
	if err != nil {
		return api.Draft{}, err
	}
	d, err := app.Store.Drafts.GetDraft(cmd.Context(), id)
	if err != nil {
		return api.Draft{}, err
	}
	if kindIn(d.Kind, kinds) {
		return d, nil
	}
	return api.Draft{}, fmt.Errorf("draft %s is a %s draft", api.ShortID(d.ID), d.Kind)
}

// completeDraftIDs completes draft ids, best fuzzy match first. Completion
// runs without the root pre-run hook, so it opens the store itself.
func completeDraftIDs(kinds ...api.DraftKind) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		v := viper.New()
		if p, _ := cmd.Flags().GetString("config"); p != "" {
			v.SetConfigFile(p)
		}
		if err := config.Load(ctx, v); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		v.Set("log.level", "error")
		app, err := wire.BuildApp(ctx, v)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer app.Close()
		drafts, err := app.Store.Drafts.ListDrafts(ctx, db.ListQuery{})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ids := make([]string, 0, len(drafts))
		for _, d := range drafts {
			if kindIn(d.Kind, kinds) {
				ids = append(ids, d.ID)
			}
		}
		return util.ScoreCompletions(toComplete, ids, 20), cobra.ShellCompDirectiveNoFileComp
	}
}

func kindIn(k api.DraftKind, kinds []api.DraftKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
