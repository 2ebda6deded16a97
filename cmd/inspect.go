package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/internal/document"
	"github.com/gnolang/tuplog/proof"
)

var stepPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show what a proof or one of its subproofs concludes",
	Long: `Prints the premises, declared and implicit conclusions of a proof and
any contradictory pairs among them.
Example) tuplog inspect --path 0.2 proofs/lemma.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(os.Stdout, args[0], stepPath); err != nil {
			logger.Error("Error inspecting proof", zap.String("file", args[0]), zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	inspectCmd.Flags().StringVar(&stepPath, "path", "", "Dotted step path of a subproof, e.g. 0.2")
}

func parseStepPath(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid step path %q", s)
		}
		path[i] = n
	}
	return path, nil
}

func runInspect(out io.Writer, file, at string) error {
	doc, err := document.Load(file)
	if err != nil {
		return err
	}
	path, err := parseStepPath(at)
	if err != nil {
		return err
	}

	p := doc.Proof
	if len(path) > 0 {
		step, err := p.StepAt(path)
		if err != nil {
			return err
		}
		c, ok := step.(proof.Composite)
		if !ok {
			return fmt.Errorf("step %s is a rule application, not a proof", at)
		}
		p = c.Proof
	}

	implicit := expr.NewSet(p.ImplicitConclusions()...)
	known := expr.NewSet(p.Premises()...).Union(implicit)

	sym := doc.Symbols
	fmt.Fprintf(out, "proof:       %s\n", doc.Name)
	if at != "" {
		fmt.Fprintf(out, "step:        %s\n", at)
	}
	fmt.Fprintf(out, "steps:       %d (%d inferences, depth %d)\n", p.Len(), p.Size(), p.Depth())
	fmt.Fprintf(out, "premises:    %s\n", sym.FormatSet(expr.NewSet(p.Premises()...)))
	fmt.Fprintf(out, "conclusions: %s\n", sym.FormatSet(expr.NewSet(p.Conclusions()...)))
	fmt.Fprintf(out, "implicit:    %s\n", sym.FormatSet(implicit))

	contradicted := known.Contradictions()
	if contradicted.Len() == 0 {
		fmt.Fprintln(out, "contradictions: none")
		return nil
	}
	fmt.Fprintln(out, "contradictions:")
	for _, m := range contradicted.Members() {
		fmt.Fprintf(out, "  %s / %s\n", sym.Format(m), sym.Format(expr.Not(m)))
	}
	return nil
}
