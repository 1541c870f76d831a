package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/kp000vinay/pybc/internal/maincmd"
	"github.com/kp000vinay/pybc/pkg/ast"
)

func writeTempPy(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.py")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func runDis(t *testing.T, src string) string {
	t.Helper()
	path := writeTempPy(t, src)
	var out, errBuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errBuf, Stdin: bytes.NewReader(nil)}
	err := maincmd.DisFiles(stdio, ast.PosNone, false, true, path)
	require.NoError(t, err, "stderr: %s", errBuf.String())
	return out.String()
}

// TestDisOutputStableAcrossCosmeticSourceChanges shows two sources that
// differ only in whitespace compile to the same bytecode: the disassembly
// text, which carries no file path, is identical. Uses pmezard/go-difflib
// the way a golden-file test would, to report exactly which lines diverge
// if this assumption ever breaks.
func TestDisOutputStableAcrossCosmeticSourceChanges(t *testing.T) {
	a := runDis(t, "x = 1\ny = 2\nx + y\n")
	b := runDis(t, "x=1\ny  =  2\nx  +  y\n")

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "first",
		ToFile:   "second",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	require.NoError(t, err)
	require.Empty(t, text, "sources differing only in whitespace produced different disassembly:\n%s", text)
}
