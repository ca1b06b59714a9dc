package plotspec

import (
	"io"

	"github.com/goccy/go-json"

	"featurecard/domain/plot"
)

// Encode serializes a spec as JSON.
func Encode(spec plot.Spec) ([]byte, error) {
	return json.Marshal(spec)
}

// Write streams a spec as indented JSON.
func Write(w io.Writer, spec plot.Spec) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(spec)
}

// Decode parses a spec previously produced by Encode.
func Decode(data []byte) (plot.Spec, error) {
	var spec plot.Spec
	err := json.Unmarshal(data, &spec)
	return spec, err
}
