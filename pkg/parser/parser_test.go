package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kp000vinay/pybc/pkg/ast"
	"github.com/kp000vinay/pybc/pkg/parser"
	"github.com/kp000vinay/pybc/pkg/token"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.py", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, mod)
	return mod
}

func TestParseSimpleAssign(t *testing.T) {
	mod := parseOK(t, "x = 1 + 2\n")
	require.Len(t, mod.Body, 1)
	assign, ok := mod.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	name, ok := assign.Targets[0].(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", name.Id)
	assert.Equal(t, ast.Store, name.Ctx)
	bin, ok := assign.Value.(*ast.BinOp)
	require.True(t, ok)
	left, ok := bin.Left.(*ast.Constant)
	require.True(t, ok)
	assert.EqualValues(t, 1, left.Value)
}

func TestParseIfElif(t *testing.T) {
	src := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	mod := parseOK(t, src)
	require.Len(t, mod.Body, 1)
	ifs, ok := mod.Body[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifs.OrElse, 1)
	elif, ok := ifs.OrElse[0].(*ast.If)
	require.True(t, ok)
	assert.Len(t, elif.OrElse, 1)
}

func TestParseFunctionDef(t *testing.T) {
	src := "def add(a, b=1, *args, c, **kwargs):\n    return a + b\n"
	mod := parseOK(t, src)
	require.Len(t, mod.Body, 1)
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params.Args, 2)
	assert.NotNil(t, fn.Params.Vararg)
	assert.Len(t, fn.Params.KwOnly, 1)
	assert.NotNil(t, fn.Params.Kwarg)
}

func TestParseListComp(t *testing.T) {
	mod := parseOK(t, "y = [x * 2 for x in range(10) if x % 2 == 0]\n")
	assign := mod.Body[0].(*ast.Assign)
	lc, ok := assign.Value.(*ast.ListComp)
	require.True(t, ok)
	require.Len(t, lc.Generators, 1)
	assert.Len(t, lc.Generators[0].Ifs, 1)
}

func TestParseFString(t *testing.T) {
	mod := parseOK(t, `y = f"hello {name!r:>10}"`+"\n")
	assign := mod.Body[0].(*ast.Assign)
	js, ok := assign.Value.(*ast.JoinedStr)
	require.True(t, ok)
	require.Len(t, js.Values, 2)
	fv, ok := js.Values[1].(*ast.FormattedValue)
	require.True(t, ok)
	assert.Equal(t, 'r', fv.Conversion)
	require.NotNil(t, fv.FormatSpec)
}

func TestParseMatchStatement(t *testing.T) {
	src := "match point:\n    case Point(x=0, y=0):\n        pass\n    case [x, y]:\n        pass\n    case _:\n        pass\n"
	mod := parseOK(t, src)
	m, ok := mod.Body[0].(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 3)
	_, ok = m.Cases[0].Pattern.(*ast.MatchClass)
	assert.True(t, ok)
	_, ok = m.Cases[1].Pattern.(*ast.MatchSequence)
	assert.True(t, ok)
	wildcard, ok := m.Cases[2].Pattern.(*ast.MatchAs)
	require.True(t, ok)
	assert.Equal(t, "_", wildcard.Name)
}

func TestParseTryExceptStar(t *testing.T) {
	src := "try:\n    pass\nexcept* ValueError as e:\n    pass\n"
	mod := parseOK(t, src)
	tr, ok := mod.Body[0].(*ast.Try)
	require.True(t, ok)
	assert.True(t, tr.IsStarred)
	require.Len(t, tr.Handlers, 1)
	assert.Equal(t, "e", tr.Handlers[0].Name)
}

func TestParseWithStatement(t *testing.T) {
	mod := parseOK(t, "with open(a) as f, open(b):\n    pass\n")
	w, ok := mod.Body[0].(*ast.With)
	require.True(t, ok)
	require.Len(t, w.Items, 2)
	assert.NotNil(t, w.Items[0].OptionalVar)
	assert.Nil(t, w.Items[1].OptionalVar)
}

func TestParseWalrus(t *testing.T) {
	mod := parseOK(t, "if (n := len(a)) > 0:\n    pass\n")
	ifs := mod.Body[0].(*ast.If)
	ne, ok := ifs.Test.(*ast.Compare)
	require.True(t, ok)
	_, ok = ne.Left.(*ast.NamedExpr)
	assert.True(t, ok)
}

func TestParseSyntaxError(t *testing.T) {
	fset := token.NewFileSet()
	_, err := parser.ParseModule(fset, "bad.py", []byte("x = = 1\n"))
	assert.Error(t, err)
}
