package discogs

import (
	"strings"

	"github.com/tidwall/gjson"

	"dcytdl/internal/media"
)

const (
	rootQueryKey  = "ROOT_QUERY"
	refKey        = "__ref"
	videosKey     = "videos"
	releasePrefix = "release"
	masterPrefix  = "Master"
)

// Resolve finds the release record in p and returns its videos.
//
// Release keys of ROOT_QUERY are tried in stored order and the first one
// whose record has a non-empty videos list wins. Discogs sometimes only
// populates videos on the master release, so when no release qualifies the
// first Master record in data is used, even if its list is empty.
func Resolve(p *Payload) ([]media.Video, error) {
	data := p.Get("data")
	if !data.IsObject() {
		return nil, missingKey(p, "resolving release", "data")
	}
	rootQuery, ok := field(data, rootQueryKey)
	if !ok {
		return nil, missingKey(p, "resolving release", rootQueryKey)
	}

	var (
		release gjson.Result
		found   bool
		err     error
	)
	rootQuery.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if !strings.HasPrefix(key, releasePrefix) {
			return true
		}
		var candidate gjson.Result
		candidate, err = releaseRecord(p, data, key, v)
		if err != nil {
			return false
		}
		if videos, ok := field(candidate, videosKey); ok && videos.IsArray() && len(videos.Array()) > 0 {
			release, found = candidate, true
			return false
		}
		logger.Printf("release %s has no videos, continuing", key)
		return true
	})
	if err != nil {
		return nil, err
	}

	if !found {
		data.ForEach(func(k, v gjson.Result) bool {
			if strings.HasPrefix(k.String(), masterPrefix) {
				logger.Printf("falling back to master record %s", k.String())
				release, found = v, true
				return false
			}
			return true
		})
	}
	if !found {
		return nil, &NotFoundError{Msg: "release not found in dsdata", Payload: p}
	}

	videos, ok := field(release, videosKey)
	if !ok {
		return nil, missingKey(p, "reading release videos", videosKey)
	}
	return decodeVideos(p, videos)
}

// releaseRecord returns the record a release* entry of ROOT_QUERY stands
// for: the target of its reference, the entry itself when it is inline, or
// the record stored under the formatted key.
func releaseRecord(p *Payload, data gjson.Result, key string, entry gjson.Result) (gjson.Result, error) {
	if ref, ok := field(entry, refKey); ok {
		rec, ok := field(data, ref.String())
		if !ok {
			return gjson.Result{}, missingKey(p, "following release reference", ref.String())
		}
		return rec, nil
	}
	if _, ok := field(entry, videosKey); ok {
		return entry, nil
	}
	formatted := FormatKey(key)
	rec, ok := field(data, formatted)
	if !ok {
		return gjson.Result{}, missingKey(p, "looking up release record", formatted)
	}
	return rec, nil
}

func decodeVideos(p *Payload, list gjson.Result) ([]media.Video, error) {
	if !list.IsArray() {
		return nil, &MalformedDataError{Msg: "release videos is not a list", Payload: p}
	}
	entries := list.Array()
	videos := make([]media.Video, 0, len(entries))
	for _, e := range entries {
		id, ok := field(e, "youtubeId")
		if !ok {
			return nil, missingKey(p, "reading video entry", "youtubeId")
		}
		v := media.Video{YoutubeID: id.String()}
		if title, ok := field(e, "title"); ok {
			v.Title = title.String()
		}
		if d, ok := field(e, "duration"); ok && d.Type == gjson.Number {
			v.Duration = d.Float()
		}
		if desc, ok := field(e, "description"); ok {
			v.Description = desc.String()
		}
		videos = append(videos, v)
	}
	return videos, nil
}
