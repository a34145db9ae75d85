package discogs

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Payload is the application state embedded in a release page.
// It keeps the raw JSON so that object keys are visited in the order the
// page stored them. A Payload is never modified after construction.
type Payload struct {
	raw  []byte
	root gjson.Result
}

// ParsePayload validates raw as a JSON object and wraps it.
func ParsePayload(raw []byte) (*Payload, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &MalformedDataError{Msg: "dsdata is not valid JSON"}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, &MalformedDataError{Msg: "dsdata is not a JSON object"}
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &Payload{raw: buf, root: gjson.ParseBytes(buf)}, nil
}

// Get returns the value at a gjson path.
func (p *Payload) Get(path string) gjson.Result {
	return p.root.Get(path)
}

// Pretty returns the payload indented for human inspection.
func (p *Payload) Pretty() []byte {
	return pretty.Pretty(p.raw)
}

// field looks up an exact object key. Discogs keys contain characters
// that are significant in gjson paths, so keys are compared literally.
func field(obj gjson.Result, key string) (gjson.Result, bool) {
	if !obj.IsObject() {
		return gjson.Result{}, false
	}
	var found gjson.Result
	ok := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}
