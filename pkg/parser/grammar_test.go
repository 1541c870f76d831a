package parser_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"
)

// TestGrammarIsWellFormed parses grammar.ebnf with golang.org/x/exp/ebnf
// and verifies it is self-consistent: every production it references is
// defined, and the module-level entry point is reachable.
func TestGrammarIsWellFormed(t *testing.T) {
	const filename = "grammar.ebnf"

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	require.NoError(t, err, "grammar.ebnf failed to parse")

	require.NoError(t, ebnf.Verify(grammar, "Module"))
}

func TestGrammarDefinesCoreStatementProductions(t *testing.T) {
	const filename = "grammar.ebnf"

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	require.NoError(t, err)

	for _, name := range []string{
		"Statement", "SimpleStmt", "CompoundStmt",
		"IfStmt", "WhileStmt", "ForStmt", "FuncDef", "ClassDef", "MatchStmt",
		"Test", "OrTest", "Comparison", "ArgList",
	} {
		_, ok := grammar[name]
		require.Truef(t, ok, "grammar.ebnf missing production %q", name)
	}
}
