package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.Equal(t, zerolog.WarnLevel, SetupWriter(&buf, "WARN", false))

	log.Info().Msg("hidden")
	log.Warn().Str("device", "0").Msg("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"device":"0"`)
	require.Contains(t, out, `"message":"shown"`)
}

func TestSetupUnknownLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.Equal(t, zerolog.InfoLevel, SetupWriter(&buf, "verbose", false))
	require.Equal(t, zerolog.InfoLevel, SetupWriter(&buf, "", true))
}
