// Package document loads proofs from YAML.
//
// An expression is written as a scalar, naming an atom, or as a sequence,
// forming a tuple. Builtin atoms use their role names (and, implies,
// forall, not, =, verbatim, concat, atomic); every other name is interned
// as a user atom. YAML anchors and aliases may be used to repeat
// sub-expressions.
package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/proof"
)

var ErrMissingProof = errors.New("document has no proof")

// Document is a decoded proof file.
type Document struct {
	Name    string
	Axioms  *expr.Set
	Proof   *proof.Proof
	Symbols *Symbols
}

type rawDocument struct {
	Name   string      `yaml:"name"`
	Axioms []yaml.Node `yaml:"axioms"`
	Proof  *rawProof   `yaml:"proof"`
}

type rawProof struct {
	Premises    []yaml.Node `yaml:"premises"`
	Steps       []rawStep   `yaml:"steps"`
	Conclusions []yaml.Node `yaml:"conclusions"`
}

type rawStep struct {
	Rule        string      `yaml:"rule"`
	Assumptions []yaml.Node `yaml:"assumptions"`
	Conclusions []yaml.Node `yaml:"conclusions"`
	Proof       *rawProof   `yaml:"proof"`

	line int
}

func (s *rawStep) UnmarshalYAML(value *yaml.Node) error {
	type plain rawStep
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	s.line = value.Line
	return nil
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = path
	}
	return doc, nil
}

// Parse decodes a document.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Proof == nil {
		return nil, ErrMissingProof
	}

	d := &decoder{
		symbols:   NewSymbols(),
		expanding: make(map[*yaml.Node]bool),
		limit:     maxNodes,
	}
	axioms, err := d.expressions(raw.Axioms)
	if err != nil {
		return nil, fmt.Errorf("axioms: %w", err)
	}
	pf, err := d.proof(raw.Proof)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:    raw.Name,
		Axioms:  expr.NewSet(axioms...),
		Proof:   pf,
		Symbols: d.symbols,
	}, nil
}

// maxNodes bounds the expression nodes decoded from one document, counting
// every expansion of an alias.
const maxNodes = 1 << 20

type decoder struct {
	symbols *Symbols
	// expanding holds the alias targets currently being decoded.
	expanding map[*yaml.Node]bool
	nodes     int
	limit     int
}

func (d *decoder) proof(raw *rawProof) (*proof.Proof, error) {
	premises, err := d.expressions(raw.Premises)
	if err != nil {
		return nil, fmt.Errorf("premises: %w", err)
	}
	steps := make([]proof.Step, 0, len(raw.Steps))
	for i := range raw.Steps {
		step, err := d.step(&raw.Steps[i])
		if err != nil {
			return nil, fmt.Errorf("step %d (line %d): %w", i, raw.Steps[i].line, err)
		}
		steps = append(steps, step)
	}
	conclusions, err := d.expressions(raw.Conclusions)
	if err != nil {
		return nil, fmt.Errorf("conclusions: %w", err)
	}
	return proof.New(premises, steps, conclusions), nil
}

func (d *decoder) step(raw *rawStep) (proof.Step, error) {
	if raw.Proof != nil {
		if raw.Rule != "" || raw.Assumptions != nil || raw.Conclusions != nil {
			return nil, errors.New("a step is either a rule application or a proof")
		}
		sub, err := d.proof(raw.Proof)
		if err != nil {
			return nil, err
		}
		return proof.Nest(sub), nil
	}

	rule, err := proof.ParseRule(raw.Rule)
	if err != nil {
		return nil, err
	}
	assumptions, err := d.expressions(raw.Assumptions)
	if err != nil {
		return nil, fmt.Errorf("assumptions: %w", err)
	}
	conclusions, err := d.expressions(raw.Conclusions)
	if err != nil {
		return nil, fmt.Errorf("conclusions: %w", err)
	}
	return proof.Infer(rule, assumptions, conclusions), nil
}

func (d *decoder) expressions(nodes []yaml.Node) ([]expr.Expression, error) {
	out := make([]expr.Expression, 0, len(nodes))
	for i := range nodes {
		e, err := d.expression(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) expression(n *yaml.Node) (expr.Expression, error) {
	d.nodes++
	if d.nodes > d.limit {
		return nil, fmt.Errorf("line %d: document expands to more than %d nodes", n.Line, d.limit)
	}

	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, fmt.Errorf("line %d: empty atom name", n.Line)
		}
		return expr.A(d.symbols.Intern(n.Value)), nil
	case yaml.SequenceNode:
		elems := make([]expr.Expression, 0, len(n.Content))
		for _, c := range n.Content {
			e, err := d.expression(c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return expr.T(elems...), nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", n.Line)
		}
		if d.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: recursive alias", n.Line)
		}
		d.expanding[n.Alias] = true
		defer delete(d.expanding, n.Alias)
		return d.expression(n.Alias)
	default:
		return nil, fmt.Errorf("line %d: expected an atom name or a sequence", n.Line)
	}
}
