package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestInfoIsCentered(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.SetWidth(20)

	c.Info("abcd")
	assert.Equal(t, strings.Repeat(" ", 8)+"abcd\n", buf.String())
}

func TestLongLineIsNotPadded(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.SetWidth(4)

	c.Error("Failed to download: %v", "boom")
	assert.Equal(t, "Failed to download: boom\n", buf.String())
}

func TestNonTerminalUsesDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Success("ok")
	assert.Equal(t, strings.Repeat(" ", (DefaultWidth-2)/2)+"ok\n", buf.String())
}

func TestBannerAndFarewell(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.SetWidth(0)

	c.Banner("Atmystic Design")
	c.Greeting("one", "two")
	c.Farewell("bye")

	assert.Equal(t, []string{"", "Atmystic Design", "", "one", "two", "", "bye"}, lines(&buf))
}

func TestQuietKeepsStatusLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.SetWidth(0)

	c.Banner("Atmystic Design")
	c.Greeting("hello")
	c.Detail(2048, time.Second, "h2")
	c.Info("Downloading %s -> %s", "u", "p")
	c.Error("Alternative attempt failed: %v", "x")
	c.Farewell("bye")

	require.Equal(t, []string{"Downloading u -> p", "Alternative attempt failed: x"}, lines(&buf))
}

func TestDetailFormatsBytes(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.SetWidth(0)

	c.Detail(2048, 1500*time.Millisecond, "h1")
	assert.Equal(t, "2.0 kB in 1.5s via h1\n", buf.String())
}
