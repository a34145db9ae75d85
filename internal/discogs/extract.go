// Package discogs extracts linked videos from rendered Discogs release pages.
//
// A release page embeds its application state as JSON inside an element
// with id "dsdata". Extract pulls that JSON out of the HTML and Resolve walks
// it to the release record and its list of videos.
package discogs

import (
	"io"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"dcytdl/internal/media"
)

// dataElementID is the id of the element carrying the embedded state.
const dataElementID = "dsdata"

var logger = log.New(io.Discard, "[discogs] ", log.LstdFlags)

// SetLogOutput sets the destination for debug logging. Logging is
// discarded by default.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Extract locates the dsdata element in html and parses its contents.
// Only the first matching element and its first child node are used.
func Extract(htmlContent string) (*Payload, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &MalformedDataError{Msg: "parsing HTML: " + err.Error()}
	}

	sel := doc.Find("#" + dataElementID).First()
	if sel.Length() == 0 {
		return nil, &NotFoundError{Msg: "can't find <script> element with id=" + dataElementID}
	}

	first := sel.Nodes[0].FirstChild
	if first == nil || first.Type != html.TextNode {
		return nil, &MalformedDataError{Msg: "element with id=" + dataElementID + " has no text content"}
	}

	logger.Printf("found dsdata: %s", first.Data)

	return ParsePayload([]byte(first.Data))
}

// ExtractVideos runs Extract and Resolve on a rendered release page.
func ExtractVideos(htmlContent string) ([]media.Video, error) {
	p, err := Extract(htmlContent)
	if err != nil {
		return nil, err
	}
	return Resolve(p)
}
