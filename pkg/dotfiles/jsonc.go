package dotfiles

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// PatchOp is one RFC 6902 operation.
type PatchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// JSONC is a parsed JSON-with-comments document. Edits go through JSON
// patches and keep comments.
type JSONC struct {
	value hujson.Value
}

// ParseJSONC parses data; empty input is an empty object.
func ParseJSONC(data []byte) (*JSONC, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}\n")
	}
	v, err := hujson.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileParse, "invalid JSON")
	}
	return &JSONC{value: v}, nil
}

// PointerToken escapes a member name for use in a JSON pointer.
func PointerToken(name string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
}

// Get decodes the value at ptr. ok is false when nothing is there.
func (j *JSONC) Get(ptr string) (interface{}, bool) {
	found := j.value.Find(ptr)
	if found == nil {
		return nil, false
	}
	clone := found.Clone()
	clone.Standardize()
	var out interface{}
	if err := json.Unmarshal(clone.Pack(), &out); err != nil {
		return nil, false
	}
	return out, true
}

// Has reports whether a value exists at ptr.
func (j *JSONC) Has(ptr string) bool {
	return j.value.Find(ptr) != nil
}

// Equal reports whether the value at ptr equals want once both are
// normalized through JSON.
func (j *JSONC) Equal(ptr string, want interface{}) bool {
	have, ok := j.Get(ptr)
	if !ok {
		return false
	}
	a, err := json.Marshal(have)
	if err != nil {
		return false
	}
	b, err := json.Marshal(normalize(want))
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// normalize round-trips v through JSON so config values compare like
// decoded ones.
func normalize(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// Patch applies ops in order.
func (j *JSONC) Patch(ops []PatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode patch")
	}
	if err := j.value.Patch(data); err != nil {
		return errors.Wrap(err, errors.ErrFileParse, "failed to apply patch")
	}
	j.value.Format()
	return nil
}

// IsArray reports whether the document root is an array.
func (j *JSONC) IsArray() bool {
	_, ok := j.value.Value.(*hujson.Array)
	return ok
}

// Bytes returns the document.
func (j *JSONC) Bytes() []byte {
	return j.value.Pack()
}
