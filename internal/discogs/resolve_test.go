package discogs

import (
	"errors"
	"os"
	"sync"
	"testing"
)

func mustPayload(t *testing.T, raw string) *Payload {
	t.Helper()
	p, err := ParsePayload([]byte(raw))
	if err != nil {
		t.Fatalf("ParsePayload() error: %v", err)
	}
	return p
}

func TestResolveInlineRelease(t *testing.T) {
	p := mustPayload(t, `{"data":{"ROOT_QUERY":{
		"release({\"discogsId\":1})":{"videos":[
			{"youtubeId":"c","title":"Third"},
			{"youtubeId":"a","title":"First"},
			{"youtubeId":"b","title":"Second","duration":61}
		]}
	}}}`)

	videos, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	wantIDs := []string{"c", "a", "b"}
	if len(videos) != len(wantIDs) {
		t.Fatalf("expected %d videos, got %d", len(wantIDs), len(videos))
	}
	for i, id := range wantIDs {
		if videos[i].YoutubeID != id {
			t.Errorf("videos[%d].YoutubeID = %q, want %q", i, videos[i].YoutubeID, id)
		}
	}
	if videos[2].Duration != 61 {
		t.Errorf("videos[2].Duration = %v, want 61", videos[2].Duration)
	}
	if videos[0].Duration != 0 {
		t.Errorf("videos[0].Duration = %v, want 0 when absent", videos[0].Duration)
	}
}

func TestResolveFollowsReference(t *testing.T) {
	p := mustPayload(t, `{"data":{
		"ROOT_QUERY":{"release({\"discogsId\":1})":{"__ref":"Release:{\"discogsId\":1}"}},
		"Release:{\"discogsId\":1}":{"videos":[{"youtubeId":"x","title":"X"}]}
	}}`)

	videos, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(videos) != 1 || videos[0].YoutubeID != "x" {
		t.Errorf("Resolve() = %+v, want single video x", videos)
	}
}

func TestResolveFormattedKeyLookup(t *testing.T) {
	p := mustPayload(t, `{"data":{
		"ROOT_QUERY":{"release({\"discogsId\":624390})":true},
		"Release:{\"discogsId\":624390}":{"videos":[{"youtubeId":"k","title":"K"}]}
	}}`)

	videos, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(videos) != 1 || videos[0].YoutubeID != "k" {
		t.Errorf("Resolve() = %+v, want single video k", videos)
	}
}

func TestResolveSkipsEmptyRelease(t *testing.T) {
	p := mustPayload(t, `{"data":{
		"ROOT_QUERY":{
			"release({\"discogsId\":1})":{"__ref":"Release:1"},
			"release({\"discogsId\":2})":{"__ref":"Release:2"}
		},
		"Release:1":{"videos":[]},
		"Release:2":{"videos":[{"youtubeId":"second","title":"S"}]},
		"Master:9":{"videos":[{"youtubeId":"master","title":"M"}]}
	}}`)

	videos, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(videos) != 1 || videos[0].YoutubeID != "second" {
		t.Errorf("Resolve() = %+v, want the second release's videos", videos)
	}
}

func TestResolveMasterFallback(t *testing.T) {
	p := mustPayload(t, `{"data":{
		"ROOT_QUERY":{"release({\"discogsId\":1})":{"__ref":"Release:1"}},
		"Release:1":{"title":"No videos here","videos":[]},
		"Master:{\"discogsId\":7}":{"videos":[{"youtubeId":"m1","title":"M1"},{"youtubeId":"m2","title":"M2"}]},
		"Master:{\"discogsId\":8}":{"videos":[{"youtubeId":"other","title":"Other"}]}
	}}`)

	videos, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(videos) != 2 || videos[0].YoutubeID != "m1" || videos[1].YoutubeID != "m2" {
		t.Errorf("Resolve() = %+v, want videos of the first master", videos)
	}
}

func TestResolveMasterWithEmptyVideos(t *testing.T) {
	p := mustPayload(t, `{"data":{
		"ROOT_QUERY":{},
		"Master:1":{"videos":[]}
	}}`)

	videos, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("expected no videos, got %d", len(videos))
	}
}

func TestResolveNotFound(t *testing.T) {
	p := mustPayload(t, `{"data":{
		"ROOT_QUERY":{"release({\"discogsId\":1})":{"__ref":"Release:1"}},
		"Release:1":{"videos":[]}
	}}`)

	_, err := Resolve(p)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error = %v, want *NotFoundError", err)
	}
	if nf.Payload != p {
		t.Error("NotFoundError should carry the original payload")
	}

	var d Diagnostic
	if !errors.As(err, &d) || d.DiagnosticPayload() != p {
		t.Error("NotFoundError should expose the payload as a Diagnostic")
	}
}

func TestResolveMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantKey string
	}{
		{"no data", `{"other":{}}`, "data"},
		{"data not an object", `{"data":[1]}`, "data"},
		{"no root query", `{"data":{"Master:1":{"videos":[]}}}`, "ROOT_QUERY"},
		{
			"dangling reference",
			`{"data":{"ROOT_QUERY":{"release(1)":{"__ref":"Release:missing"}}}}`,
			"Release:missing",
		},
		{
			"dangling formatted key",
			`{"data":{"ROOT_QUERY":{"release({\"discogsId\":5})":{}}}}`,
			`Release:{"discogsId":5}`,
		},
		{
			"master without videos",
			`{"data":{"ROOT_QUERY":{},"Master:1":{"title":"M"}}}`,
			"videos",
		},
		{
			"video without id",
			`{"data":{"ROOT_QUERY":{"release(1)":{"videos":[{"title":"no id"}]}}}}`,
			"youtubeId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPayload(t, tt.raw)
			_, err := Resolve(p)

			var md *MalformedDataError
			if !errors.As(err, &md) {
				t.Fatalf("Resolve() error = %v, want *MalformedDataError", err)
			}
			if md.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", md.Key, tt.wantKey)
			}
			if md.Payload != p {
				t.Error("MalformedDataError should carry the full payload")
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	raw := `{"data":{
		"ROOT_QUERY":{"release(1)":{"__ref":"Release:1"}},
		"Release:1":{"videos":[{"youtubeId":"a","title":"A","duration":10}]}
	}}`
	p := mustPayload(t, raw)

	first, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	second, err := Resolve(p)
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}

	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("Resolve() not idempotent: %+v vs %+v", first, second)
	}
	if string(p.raw) != raw {
		t.Error("Resolve() modified the payload")
	}
}

func TestResolveConcurrent(t *testing.T) {
	html, err := os.ReadFile("testdata/release.html")
	if err != nil {
		t.Fatal(err)
	}
	want, err := ExtractVideos(string(html))
	if err != nil {
		t.Fatalf("ExtractVideos() error: %v", err)
	}
	p, err := Extract(string(html))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	missing := mustPayload(t, `{"data":{"ROOT_QUERY":{"release(1)":{"__ref":"Release:missing"}}}}`)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers*3)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, err := Resolve(p)
				if err != nil {
					errs <- err
					return
				}
				if len(got) != len(want) {
					errs <- errors.New("shared payload resolved to a different list")
					return
				}
				for k := range got {
					if got[k] != want[k] {
						errs <- errors.New("shared payload resolved to a different video")
						return
					}
				}

				if _, err := ExtractVideos(string(html)); err != nil {
					errs <- err
					return
				}

				var mde *MalformedDataError
				if _, err := Resolve(missing); !errors.As(err, &mde) || mde.Payload != missing {
					errs <- errors.New("dangling reference did not fail with its payload")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
