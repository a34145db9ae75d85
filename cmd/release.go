package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"dcytdl/internal/discogs"
	"dcytdl/internal/download"
	"dcytdl/internal/httputil"
	"dcytdl/internal/media"
	"dcytdl/internal/render"
	"dcytdl/internal/ui"
)

// releaseRun is the default command: dcytdl <release-url>
func releaseRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	url := args[0]
	if err := httputil.ValidateURL(url); err != nil {
		return fmt.Errorf("invalid release URL: %w", err)
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	fmt.Fprintln(stderr, ui.HeadingStyle.Render("--- scraping video ids ..."))
	videos, err := scrape(ctx, render.New(cfg), url, stderr)
	if err != nil {
		return err
	}

	if flagJSON {
		if err := ui.WriteJSON(stdout, videos); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	} else {
		ui.PrintVideos(stdout, videos)
	}

	if flagNoDownload || len(videos) == 0 {
		return nil
	}

	if flagPick {
		picked, err := ui.Pick("Download", ui.PickItems(videos))
		if err != nil {
			return err
		}
		selected := make([]media.Video, len(picked))
		for i, idx := range picked {
			selected[i] = videos[idx]
		}
		videos = selected
	}

	dir, err := cfg.ExpandOutputDir()
	if err != nil {
		return fmt.Errorf("resolving output dir: %w", err)
	}
	debugf("output directory: %s", dir)

	d := download.NewYTDLP(download.Options{
		Binary:            cfg.YtDlp.Binary,
		OutputDir:         dir,
		OutputTemplate:    cfg.YtDlp.OutputTemplate,
		Format:            cfg.YtDlp.Format,
		ExtractAudio:      cfg.YtDlp.ExtractAudio,
		AudioFormat:       cfg.YtDlp.AudioFormat,
		RestrictFilenames: cfg.YtDlp.RestrictFilenames,
		ExtraArgs:         cfg.YtDlp.Args,
	})

	fmt.Fprintln(stderr, ui.HeadingStyle.Render("\n--- downloading files ..."))
	return downloadVideos(ctx, d, videos, stderr)
}

// scrape renders the release page and resolves its videos. Resolution
// failures dump the diagnostic payload to w before returning.
func scrape(ctx context.Context, r render.Renderer, url string, w io.Writer) ([]media.Video, error) {
	debugf("rendering %s", url)
	html, err := r.Render(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("rendering release page: %w", err)
	}
	debugf("rendered %d bytes", len(html))

	videos, err := discogs.ExtractVideos(html)
	if err != nil {
		writeDiagnostics(w, err)
		return nil, err
	}
	debugf("found %d videos", len(videos))
	return videos, nil
}

// writeDiagnostics writes the payload carried by a discogs error, if any.
func writeDiagnostics(w io.Writer, err error) {
	var d discogs.Diagnostic
	if errors.As(err, &d) && d.DiagnosticPayload() != nil {
		w.Write(d.DiagnosticPayload().Pretty())
	}
	fmt.Fprintln(w)
}

func videoLabel(v media.Video) string {
	if v.Title == "" {
		return v.YoutubeID
	}
	return v.Title
}

// downloadVideos downloads each video in turn, reporting failures without
// aborting the rest of the batch.
func downloadVideos(ctx context.Context, d download.Downloader, videos []media.Video, w io.Writer) error {
	line := ui.NewProgressLine(w)

	results := download.All(ctx, d, cfg.YouTube.VideoBaseURL, videos, download.Hooks{
		Start: func(v media.Video) {
			line.Start(videoLabel(v))
		},
		Progress: func(v media.Video, p download.Progress) {
			// Untitled Discogs entries take the title yt-dlp reports.
			if v.Title == "" && p.Title != "" {
				line.SetLabel(p.Title)
			}
			line.Update(p.Percent(), p.ETA)
		},
		Done: func(r download.Result) {
			title := line.Label()
			if r.URL == "" {
				// Rejected before Start; the line still holds the previous item.
				title = videoLabel(r.Video)
			}
			if r.Err != nil {
				line.Finish(ui.ErrStyle.Render(fmt.Sprintf("failed: %s: %v", title, r.Err)))
				return
			}
			debugf("saved %s to %s", r.Video.YoutubeID, r.Path)
			line.Finish(ui.DoneStyle.Render("done: " + title))
		},
	})

	failed := download.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("download interrupted: %w", err)
	}
	return fmt.Errorf("%d of %d downloads failed", len(failed), len(results))
}
