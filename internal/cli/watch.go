package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/config"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/review"
)

var watchCmd = &cobra.Command{
	Use:   "watch [inbox]",
	Short: "Watch a directory and review every document dropped into it",
	Long: `Watch an inbox directory. Every new .docx file is run through the
reviewer panel and its annotated copy is written to the output
directory. Working copies and already-reviewed output are ignored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("outdir", "o", "", "directory for annotated output (default: alongside the original)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inbox := cfg.Inbox
	if len(args) == 1 {
		inbox = args[0]
	}
	if inbox == "" {
		return fmt.Errorf("no inbox directory: pass one or set inbox in %s", config.DefaultFile)
	}

	outdir, _ := cmd.Flags().GetString("outdir")
	if outdir == "" {
		outdir = cfg.Outdir
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inbox); err != nil {
		return fmt.Errorf("watching %s: %w", inbox, err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	log.Info("watching inbox", "dir", inbox)

	panel := review.NewPanel(cfg.Skip, log)
	pipeline := annotate.NewPipeline(annotate.Options{
		MaxIssues: cfg.MaxIssues,
		Threshold: cfg.FuzzyThreshold,
		Logger:    log,
	})

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !reviewable(event.Name) {
				continue
			}
			// Writers are still flushing when Create fires.
			time.Sleep(200 * time.Millisecond)
			reviewDropped(ctx, log, panel, pipeline, cfg.ChunkTokens, event.Name, outdir)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		}
	}
}

// reviewable reports whether a dropped file should be picked up. The
// pipeline's own working copies and finished output must not re-enter
// the inbox loop.
func reviewable(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.HasSuffix(stem, "_working") || strings.HasSuffix(stem, "_REVIEWED") {
		return false
	}
	return !strings.HasPrefix(filepath.Base(path), "~")
}

func reviewDropped(ctx context.Context, log *slog.Logger, panel *review.Panel, pipeline *annotate.Pipeline, budget int, path, outdir string) {
	doc, err := docx.Open(path)
	if err != nil {
		log.Error("cannot open dropped document", "path", path, "error", err)
		return
	}

	issues := panel.ReviewDocument(ctx, doc, budget)

	out := ""
	if outdir != "" {
		out = filepath.Join(outdir, filepath.Base(annotate.OutputPath(path)))
	}
	result, err := pipeline.Run(path, out, issues)
	if err != nil {
		log.Error("review failed", "path", path, "error", err)
		return
	}
	log.Info("reviewed", "path", path, "output", result.OutputPath,
		"applied", result.Summary.HighlightsApplied, "not_found", result.Summary.NotFound)
}
