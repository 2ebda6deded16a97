package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/proof"
	"github.com/gnolang/tuplog/verifier"
)

const modusPonensDoc = `
name: modus ponens
axioms:
  - p
  - &imp [implies, p, q]
proof:
  premises: [p, *imp]
  steps:
    - rule: implication-elimination
      assumptions: [p, *imp]
      conclusions: [q]
    - proof:
        premises: [p, q]
        steps:
          - rule: conjunction-introduction
            assumptions: [p, q]
            conclusions: [[and, p, q]]
        conclusions: [[and, p, q]]
  conclusions: [[and, p, q]]
`

func TestParse(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(modusPonensDoc))
	require.NoError(t, err)

	assert.Equal(t, "modus ponens", doc.Name)
	assert.Equal(t, 2, doc.Symbols.Len())

	p, ok := doc.Symbols.Lookup("p")
	require.True(t, ok)
	q, ok := doc.Symbols.Lookup("q")
	require.True(t, ok)
	assert.False(t, expr.IsReserved(p))
	assert.False(t, expr.IsReserved(q))

	imp := expr.Implies(expr.A(p), expr.A(q))
	assert.True(t, doc.Axioms.ContainsAll(expr.A(p), imp))
	assert.Equal(t, 2, doc.Proof.Len())

	nested, err := doc.Proof.StepAt([]int{1, 0})
	require.NoError(t, err)
	atomic, ok := nested.(proof.Atomic)
	require.True(t, ok)
	assert.Equal(t, proof.ConjunctionIntroduction, atomic.Inference.Rule())

	grounded, err := verifier.VerifyProof(doc.Proof, doc.Axioms)
	require.NoError(t, err)
	assert.True(t, grounded)
}

func TestBuiltinNames(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(`
proof:
  conclusions:
    - [not, ["=", [verbatim, a], [verbatim, b]]]
    - [atomic, [verbatim, []]]
    - [forall, x, [concat, x, x]]
`))
	require.NoError(t, err)
	cs := doc.Proof.Conclusions()
	require.Len(t, cs, 3)

	a, _ := doc.Symbols.Lookup("a")
	b, _ := doc.Symbols.Lookup("b")
	x, _ := doc.Symbols.Lookup("x")
	assert.True(t, expr.Equal(expr.Not(expr.Eq(expr.Verb(expr.A(a)), expr.Verb(expr.A(b)))), cs[0]))
	assert.True(t, expr.Equal(expr.IsAtomic(expr.Verb(expr.T())), cs[1]))
	assert.True(t, expr.Equal(expr.Forall(expr.A(x), expr.Concat(expr.A(x), expr.A(x))), cs[2]))

	assert.Equal(t, "(not (= (verbatim a) (verbatim b)))", doc.Symbols.Format(cs[0]))
	assert.Equal(t, "{a, b}", doc.Symbols.FormatSet(expr.NewSet(expr.A(a), expr.A(b))))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"missing proof", "axioms: [p]", "no proof"},
		{"unknown rule", "proof:\n  steps:\n    - rule: modus-tollens\n", "unknown rule"},
		{"mixed step", "proof:\n  steps:\n    - rule: tuple-appendation\n      proof: {}\n", "either"},
		{"mapping expression", "proof:\n  premises: [{a: b}]\n", "expected an atom name"},
		{"empty atom", "proof:\n  premises: [\"\"]\n", "empty atom"},
		{"bad yaml", "proof: [", ""},
		{"recursive alias", "proof:\n  premises:\n    - &a [p, *a]\n", "line 3: recursive alias"},
		{"nested recursive alias", "proof:\n  premises:\n    - &a [p, [q, [r, *a]]]\n", "recursive alias"},
		{"alias expansion", expandingDocument(), "expands to more than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

// expandingDocument nests aliases so that each level repeats the previous
// one ten times.
func expandingDocument() string {
	var sb strings.Builder
	sb.WriteString("axioms:\n  - &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&sb, "  - &l%d [", i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "*l%d", i-1)
		}
		sb.WriteString("]\n")
	}
	sb.WriteString("proof: {}\n")
	return sb.String()
}

func TestSharedAliasIsNotRecursive(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte("axioms: [&p [not, p], [and, *p, *p]]\nproof: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Axioms.Len())
}

func TestStepErrorsCarryLine(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("proof:\n  steps:\n    - rule: nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0 (line 3)")
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("proof:\n  premises: [p]\n  conclusions: [p]\n"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSymbolsIntern(t *testing.T) {
	t.Parallel()
	s := NewSymbols()
	id, ok := s.Lookup("implies")
	require.True(t, ok)
	assert.Equal(t, expr.Builtin(expr.Implication), id)

	first := s.Intern("p")
	assert.Equal(t, expr.FirstUserAtom, first)
	assert.Equal(t, first, s.Intern("p"))
	second := s.Intern("q")
	assert.True(t, first.Less(second))
	assert.Equal(t, "q", s.Name(second))
	assert.Equal(t, "#99", s.Name(99))
}
