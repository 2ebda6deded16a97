package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/internal/document"
	"github.com/gnolang/tuplog/kernel"
	"github.com/gnolang/tuplog/proof"
	"github.com/gnolang/tuplog/rules"
	"github.com/gnolang/tuplog/verifier"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed)
	noteStyle    = color.New(color.FgWhite)
)

const resultTemplate = `{{header .Status .Name}}
{{- if .Location }}
{{location .Location .Rule}}
{{- end }}
{{- if .Message }}
{{message .Message}}
{{- end }}
{{- if .Found }}
{{note "found" .Found}}
{{- end }}
{{- range .Missing }}
{{note "missing" .}}
{{- end }}
{{- range .Ungrounded }}
{{note "not an axiom" .}}
{{- end }}
`

var resultTmpl = template.Must(template.New("result").Funcs(template.FuncMap{
	"header":   header,
	"location": location,
	"message":  message,
	"note":     note,
}).Parse(resultTemplate))

// ResultData is what the result template renders.
type ResultData struct {
	Status     string
	Name       string
	Location   string
	Rule       string
	Message    string
	Found      string
	Missing    []string
	Ungrounded []string
}

// FormatResults renders every result followed by a summary line.
func FormatResults(results []kernel.Result) string {
	var sb strings.Builder
	for _, res := range results {
		sb.WriteString(FormatResult(res))
	}
	sb.WriteString(Summary(results))
	sb.WriteByte('\n')
	return sb.String()
}

// FormatResult renders one verification result.
func FormatResult(res kernel.Result) string {
	var buf bytes.Buffer
	if err := resultTmpl.Execute(&buf, buildData(res)); err != nil {
		return fmt.Sprintf("Error formatting result: %v\n", err)
	}
	return buf.String()
}

// Summary counts grounded, ungrounded and invalid results.
func Summary(results []kernel.Result) string {
	var grounded, ungrounded, invalid int
	for _, res := range results {
		switch {
		case !res.Valid():
			invalid++
		case res.Grounded:
			grounded++
		default:
			ungrounded++
		}
	}
	return fmt.Sprintf("%d proofs: %d grounded, %d ungrounded, %d invalid",
		len(results), grounded, ungrounded, invalid)
}

func buildData(res kernel.Result) ResultData {
	name := res.Name
	if name == "" {
		name = "<source>"
	}
	data := ResultData{Name: name}

	symbols := document.NewSymbols()
	if res.Document != nil {
		symbols = res.Document.Symbols
	}

	switch {
	case res.Valid() && res.Grounded:
		data.Status = "ok"
	case res.Valid():
		data.Status = "ungrounded"
		if doc := res.Document; doc != nil {
			unsupported := expr.NewSet(doc.Proof.Premises()...).Subtract(doc.Axioms)
			for _, m := range unsupported.Members() {
				data.Ungrounded = append(data.Ungrounded, symbols.Format(m))
			}
		}
	default:
		data.Status = "invalid"
		describe(&data, res, symbols)
	}
	return data
}

func describe(data *ResultData, res kernel.Result, symbols *document.Symbols) {
	var le *verifier.LocatedError
	if !errors.As(res.Err, &le) {
		data.Message = res.Err.Error()
		return
	}
	data.Location = le.Location()

	var pf *proof.Proof
	if res.Document != nil {
		pf = res.Document.Proof
	}
	var inf *proof.Inference
	if pf != nil && len(le.Path) > 0 {
		if step, err := pf.StepAt(le.Path); err == nil {
			if a, ok := step.(proof.Atomic); ok {
				inf = &a.Inference
				data.Rule = a.Inference.Rule().String()
			}
		}
	}

	switch le.Err.Kind {
	case verifier.AssumptionsNotFound, verifier.ConclusionsNotFound:
		data.Message = humanize(le.Err.Kind)
		for _, m := range le.Err.Missing.Members() {
			data.Missing = append(data.Missing, symbols.Format(m))
		}
	case verifier.InvalidStepSpecification:
		var se *rules.SpecificationError
		if !errors.As(le.Err.Spec, &se) {
			data.Message = le.Err.Spec.Error()
			return
		}
		data.Message = specMessage(se, symbols)
		if inf != nil {
			if found, ok := resolve(*inf, se.Path); ok {
				data.Found = symbols.Format(found)
			}
		}
	}
}

func humanize(kind verifier.ValidationKind) string {
	switch kind {
	case verifier.AssumptionsNotFound:
		return "step premises are not threaded from what was proved before"
	case verifier.ConclusionsNotFound:
		return "declared conclusions were not proved"
	default:
		return kind.String()
	}
}

func specMessage(se *rules.SpecificationError, symbols *document.Symbols) string {
	if se.Kind == rules.WrongValue {
		return fmt.Sprintf("%s: expected %s", se.Path, symbols.Format(se.Value))
	}
	return se.Error()
}

// resolve finds the sub-expression of inf that path points at.
func resolve(inf proof.Inference, path rules.Path) (expr.Expression, bool) {
	side := inf.Assumptions()
	if path.Side == rules.SideConclusion {
		side = inf.Conclusions()
	}
	if path.Index < 0 || path.Index >= len(side) {
		return nil, false
	}
	e := side[path.Index]
	for _, i := range path.Children {
		child, err := expr.Child(e, i)
		if err != nil {
			return nil, false
		}
		e = child
	}
	return e, true
}

// utils functions used in the text template

func header(status, name string) string {
	var prefix string
	switch status {
	case "ok":
		prefix = okStyle.Sprint("ok: ")
	case "ungrounded":
		prefix = warningStyle.Sprint("ungrounded: ")
	default:
		prefix = errorStyle.Sprint("invalid: ")
	}
	return prefix + fileStyle.Sprint(name)
}

func location(loc, rule string) string {
	out := lineStyle.Sprint("  --> ") + "step " + loc
	if rule != "" {
		out += " " + ruleStyle.Sprintf("[%s]", rule)
	}
	return out
}

func message(msg string) string {
	return lineStyle.Sprint("   | ") + messageStyle.Sprint(msg)
}

func note(label, text string) string {
	return lineStyle.Sprint("   = ") + noteStyle.Sprintf("%s: %s", label, text)
}
