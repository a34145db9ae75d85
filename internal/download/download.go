// Package download fetches linked videos with yt-dlp.
// yt-dlp is driven through go-ytdlp, which runs the binary with an explicit
// argument slice; video IDs are validated before they reach it.
package download

import (
	"context"
	"fmt"
	"time"

	"dcytdl/internal/httputil"
	"dcytdl/internal/media"
)

// Progress is a snapshot of a running download.
type Progress struct {
	Downloaded int64
	Total      int64 // 0 when unknown
	ETA        time.Duration
	Title      string // title reported by yt-dlp, may be empty
}

// Percent returns the completed fraction in [0, 1].
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Downloaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Downloader downloads a single video URL and returns the output path.
type Downloader interface {
	Download(ctx context.Context, url string, onProgress func(Progress)) (string, error)
}

// Result is the outcome of downloading one video.
type Result struct {
	Video media.Video
	URL   string
	Path  string
	Err   error
}

// Hooks observe a batch download. Any field may be nil.
type Hooks struct {
	Start    func(media.Video)
	Progress func(media.Video, Progress)
	Done     func(Result)
}

// All downloads videos one after another. A failing video is recorded in
// its Result and the batch moves on; only context cancellation stops it
// early, in which case the remaining videos are reported as canceled.
func All(ctx context.Context, d Downloader, baseURL string, videos []media.Video, hooks Hooks) []Result {
	results := make([]Result, 0, len(videos))
	for _, v := range videos {
		res := one(ctx, d, baseURL, v, hooks)
		if hooks.Done != nil {
			hooks.Done(res)
		}
		results = append(results, res)
	}
	return results
}

func one(ctx context.Context, d Downloader, baseURL string, v media.Video, hooks Hooks) Result {
	res := Result{Video: v}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	url, err := httputil.VideoURL(baseURL, v.YoutubeID)
	if err != nil {
		res.Err = fmt.Errorf("building URL for %q: %w", v.Title, err)
		return res
	}
	res.URL = url

	if hooks.Start != nil {
		hooks.Start(v)
	}

	var cb func(Progress)
	if hooks.Progress != nil {
		cb = func(p Progress) { hooks.Progress(v, p) }
	}

	res.Path, res.Err = d.Download(ctx, url, cb)
	return res
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
