package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"dcytdl/internal/media"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Styles for status lines written by the cmd package.
	HeadingStyle = lipgloss.NewStyle().Bold(true)
	DoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ErrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// VideoTable renders videos as a table with id, title and duration columns.
func VideoTable(videos []media.Video) string {
	rows := make([][]string, len(videos))
	for i, v := range videos {
		rows[i] = []string{v.YoutubeID, v.Title, media.FormatDuration(v.Duration)}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("VIDEO ID", "TITLE", "DURATION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String()
}

// PrintVideos writes the video table to w.
func PrintVideos(w io.Writer, videos []media.Video) {
	fmt.Fprintln(w, VideoTable(videos))
}

// videoJSON is the machine-readable form of a video.
type videoJSON struct {
	YoutubeID   string  `json:"youtubeId"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration,omitempty"`
	Description string  `json:"description,omitempty"`
}

// WriteJSON writes videos to w as an indented JSON array.
func WriteJSON(w io.Writer, videos []media.Video) error {
	out := make([]videoJSON, len(videos))
	for i, v := range videos {
		out[i] = videoJSON{
			YoutubeID:   v.YoutubeID,
			Title:       v.Title,
			Duration:    v.Duration,
			Description: v.Description,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// PickItems formats videos as single-line fzf entries.
func PickItems(videos []media.Video) []string {
	items := make([]string, len(videos))
	for i, v := range videos {
		items[i] = fmt.Sprintf("%s  (%s)  [%s]", v.Title, media.FormatDuration(v.Duration), v.YoutubeID)
	}
	return items
}
