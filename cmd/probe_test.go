package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyRowsSorted(t *testing.T) {
	rows := propertyRows(map[string]float64{"width": 1280, "fps": 29.97, "height": 720})
	require.Equal(t, [][]string{
		{"fps", "29.97"},
		{"height", "720"},
		{"width", "1280"},
	}, rows)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Property", "Value"}, [][]string{{"source", "camera 0"}, {"short"}})
	require.True(t, strings.Contains(out, "Property"))
	require.True(t, strings.Contains(out, "camera 0"))
	require.True(t, strings.Contains(out, "short"))
}
