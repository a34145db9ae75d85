package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// progressInterval is how often yt-dlp progress is reported.
const progressInterval = 250 * time.Millisecond

// Options configures the yt-dlp invocation.
type Options struct {
	Binary            string // yt-dlp executable, empty to search PATH
	OutputDir         string
	OutputTemplate    string // yt-dlp output template, relative to OutputDir
	Format            string
	ExtractAudio      bool
	AudioFormat       string
	RestrictFilenames bool
	ExtraArgs         []string // raw yt-dlp arguments placed before the URL
}

// YTDLP downloads videos with yt-dlp.
type YTDLP struct {
	opts Options
}

// NewYTDLP creates a yt-dlp backed Downloader.
func NewYTDLP(opts Options) *YTDLP {
	return &YTDLP{opts: opts}
}

// Download runs yt-dlp for a single video URL.
func (y *YTDLP) Download(ctx context.Context, url string, onProgress func(Progress)) (string, error) {
	absDir, err := filepath.Abs(y.opts.OutputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	// The filename reported by progress updates backs up the info JSON,
	// which yt-dlp omits for some extractors.
	var (
		mu       sync.Mutex
		lastFile string
	)
	dl := y.command(absDir).ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		if update.Filename != "" {
			mu.Lock()
			lastFile = update.Filename
			mu.Unlock()
		}
		if onProgress == nil {
			return
		}
		p := Progress{
			Downloaded: int64(update.DownloadedBytes),
			Total:      int64(update.TotalBytes),
			ETA:        update.ETA(),
		}
		if update.Info != nil && update.Info.Title != nil {
			p.Title = *update.Info.Title
		}
		onProgress(p)
	})

	result, err := dl.Run(ctx, y.args(url)...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed for %s: %w", url, err)
	}

	if result != nil {
		info, err := result.GetExtractedInfo()
		if err == nil && len(info) > 0 && info[0].Filename != nil && *info[0].Filename != "" {
			return *info[0].Filename, nil
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if lastFile != "" {
		return lastFile, nil
	}
	return absDir, nil
}

// args returns the positional arguments: configured extras, then the URL.
func (y *YTDLP) args(url string) []string {
	args := make([]string, 0, len(y.opts.ExtraArgs)+1)
	args = append(args, y.opts.ExtraArgs...)
	return append(args, url)
}

// command builds the yt-dlp invocation from the configured options.
func (y *YTDLP) command(dir string) *ytdlp.Command {
	dl := ytdlp.New().
		NoPlaylist().
		PrintJSON().
		Output(filepath.Join(dir, y.template()))

	if y.opts.Binary != "" {
		dl = dl.SetExecutable(y.opts.Binary)
	}
	if y.opts.Format != "" {
		dl = dl.Format(y.opts.Format)
	}
	if y.opts.ExtractAudio {
		dl = dl.ExtractAudio()
		if y.opts.AudioFormat != "" {
			dl = dl.AudioFormat(y.opts.AudioFormat)
		}
	}
	if y.opts.RestrictFilenames {
		dl = dl.RestrictFilenames()
	}
	return dl
}

func (y *YTDLP) template() string {
	if y.opts.OutputTemplate == "" {
		return "%(title)s [%(id)s].%(ext)s"
	}
	return y.opts.OutputTemplate
}
