package style

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	for name, s := range map[string]func(...string) string{
		"Success": Success.Render,
		"Warning": Warning.Render,
		"Error":   Error.Render,
		"Dim":     Dim.Render,
		"Bold":    Bold.Render,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, s("text"), "text")
		})
	}
}

func TestWriters(t *testing.T) {
	var buf bytes.Buffer
	Warn(&buf, "UNKNOWN ELEMENT IN %s", "default:x")
	Done(&buf, "wrote %d recipe(s)", 3)
	Step(&buf, "loading %s", "sources.xlsx")

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "UNKNOWN ELEMENT IN default:x")
	assert.Contains(t, out, "wrote 3 recipe(s)")
	assert.Contains(t, out, "loading sources.xlsx")
}
