package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/mithrel/tutor/internal/present"
	"github.com/mithrel/tutor/pkg/api"
)

const defaultPager = "less -FRSX"

func renderDrafts(ctx context.Context, out, errOut io.Writer, drafts []api.Draft, opts present.Options) error {
	if opts.Mode == present.ModeTUI {
		return present.RenderDrafts(ctx, out, drafts, opts)
	}
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderDrafts(ctx, w, drafts, opts)
	})
}

func renderDraft(ctx context.Context, out, errOut io.Writer, d api.Draft, opts present.Options) error {
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderDraft(w, d, opts)
	})
}

// withPager pipes write's output through $PAGER when out is a terminal.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
