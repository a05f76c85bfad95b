package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/sol-telemetry/internal/units"
)

func TestSummary_WriteHTML(t *testing.T) {
	snaps := snapshots([]float64{250, 260, 240}, nil)
	s, err := Summarize(snaps, units.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteHTML(&buf, "curiosity", Points(snaps)))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Mean temperature")
	assert.Contains(t, out, "Distance traveled")
}

func TestSummary_WriteHTMLEmpty(t *testing.T) {
	s, err := Summarize(nil, units.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, s.WriteHTML(&buf, "empty", nil))
}
