package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kp000vinay/pybc/pkg/compiler"
	"github.com/kp000vinay/pybc/pkg/parser"
	"github.com/kp000vinay/pybc/pkg/token"
	"github.com/kp000vinay/pybc/pkg/vm"
)

func runSource(t *testing.T, src string) (string, error) {
	t.Helper()
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.py", []byte(src))
	require.NoError(t, err)
	code, err := compiler.CompileModule(fset, "test.py", mod)
	require.NoError(t, err)

	var out bytes.Buffer
	th := &vm.Thread{Name: "test", Stdout: &out}
	_, runErr := th.Run(code)
	return out.String(), runErr
}

func TestVMArithmeticAndPrintExpr(t *testing.T) {
	out, err := runSource(t, "1 + 2 * 3\n")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestVMNameBindingAcrossStatements(t *testing.T) {
	out, err := runSource(t, "x = 10\ny = x - 3\ny\n")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestVMIfElse(t *testing.T) {
	out, err := runSource(t, "x = 5\nif x > 3:\n    x\nelse:\n    0\n")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestVMWhileLoop(t *testing.T) {
	out, err := runSource(t, "i = 0\nn = 0\nwhile i < 5:\n    n = n + i\n    i = i + 1\nn\n")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestVMUndefinedNameIsRuntimeError(t *testing.T) {
	_, err := runSource(t, "y\n")
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Error(), "not defined")
}

func TestVMDivisionByZero(t *testing.T) {
	_, err := runSource(t, "1 / 0\n")
	require.Error(t, err)
}

func TestVMUserDefinedCallIsUnsupported(t *testing.T) {
	_, err := runSource(t, "def f():\n    return 1\nf()\n")
	require.Error(t, err)
}

func TestVMMaxStepsAborts(t *testing.T) {
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.py", []byte("i = 0\nwhile i < 1000000:\n    i = i + 1\n"))
	require.NoError(t, err)
	code, err := compiler.CompileModule(fset, "test.py", mod)
	require.NoError(t, err)

	th := &vm.Thread{Name: "test", MaxSteps: 10}
	_, runErr := th.Run(code)
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "MaxSteps")
}
