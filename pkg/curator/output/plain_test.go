package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatter(t *testing.T) {
	f := &PlainFormatter{}
	var buf bytes.Buffer

	require.NoError(t, f.Format(&buf, sampleReport()))
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header plus three files")

	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[0], "PATH")
	assert.Contains(t, out, "to_review")
	assert.Contains(t, out, "notes/alpha.md")
	assert.Contains(t, out, "reviewed")
	assert.Contains(t, out, "deleted")

	// No ANSI escape sequences in plain output
	assert.NotContains(t, out, "\x1b[")
}

func TestPlainFormatter_Empty(t *testing.T) {
	f := &PlainFormatter{}
	var buf bytes.Buffer

	require.NoError(t, f.Format(&buf, &Report{Vault: "/vault"}))
	assert.Equal(t, "STATUS PATH\n", buf.String())
}
