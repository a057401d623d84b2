package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged fails the test unless logs contains every substring.
func AssertLogged(t *testing.T, logs string, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		require.True(t, strings.Contains(logs, s), "expected log output to contain %q", s)
	}
}

// CountLogged returns how many lines of logs contain substring.
func CountLogged(logs, substring string) int {
	n := 0
	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, substring) {
			n++
		}
	}
	return n
}

// DumpLogs prints captured logs when MODBOOT_TEST_LOGS=true.
func DumpLogs(t *testing.T, buf *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if os.Getenv("MODBOOT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
}
