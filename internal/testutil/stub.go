package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// StubSimulator writes an executable /bin/sh script named "ising" into a
// fresh temp dir and returns its path. The body sees the simulator flags as
// "$@"; ParseArgs below extracts them into $T $L $N $NT $FS $S.
//
// Skips the test on Windows.
func StubSimulator(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub simulator needs /bin/sh")
	}

	path := filepath.Join(t.TempDir(), "ising")
	script := "#!/bin/sh\n" + ParseArgs + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub simulator: %v", err)
	}
	return path
}

// ParseArgs is a sh prelude that reads the simulator flags into variables.
const ParseArgs = `while [ $# -gt 0 ]; do
  case "$1" in
    -T) T="$2"; shift 2 ;;
    -L) L="$2"; shift 2 ;;
    -n) N="$2"; shift 2 ;;
    -nT) NT="$2"; shift 2 ;;
    -fs) FS="$2"; shift 2 ;;
    -s) S="$2"; shift 2 ;;
    *) shift ;;
  esac
done
`
