package sink

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/levelforge/levelforge/pkg/gen"
)

// RenderYAML encodes a level as YAML, a friendlier format for hand editing
// and diffing than JSON.
func RenderYAML(level *gen.Level) ([]byte, error) {
	return yaml.Marshal(level)
}

// WriteYAML encodes a level as YAML and writes it to w.
func WriteYAML(level *gen.Level, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(level)
}

// ReadYAML decodes a level previously written with [WriteYAML] or
// [RenderYAML].
func ReadYAML(r io.Reader) (*gen.Level, error) {
	var level gen.Level
	if err := yaml.NewDecoder(r).Decode(&level); err != nil {
		return nil, err
	}
	return &level, nil
}
