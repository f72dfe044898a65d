package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitAndLevelString(t *testing.T) {
	cases := map[string]string{
		"debug":    "debug",
		"WARN":     "warn",
		"warning":  "warn",
		"Error":    "error",
		"fatal":    "fatal",
		"nonsense": "info",
		"":         "info",
	}
	for in, want := range cases {
		Init(in)
		require.Equal(t, want, LevelString(), "input %q", in)
	}
	Init("info")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Init("warn")
	defer Init("info")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	require.NotContains(t, out, "debug-msg")
	require.NotContains(t, out, "info-msg")
	require.Contains(t, out, "[WARN] warn-msg")
	require.Contains(t, out, "[ERROR] error-msg")
}

func TestFatalfExits(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	code := 0
	exit = func(c int) { code = c }
	defer func() { exit = os.Exit }()

	Init("error")
	defer Init("info")
	Fatalf("boom %d", 42)
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "[FATAL] boom 42")
}

func TestSetupMirrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	closer, err := Setup("info", path)
	require.NoError(t, err)
	defer SetOutput(os.Stdout)

	Infof("written to %s", "file")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), "written to file"))
}

func TestSetupWithoutFile(t *testing.T) {
	closer, err := Setup("debug", "")
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	require.Equal(t, "debug", LevelString())
	Init("info")
}
