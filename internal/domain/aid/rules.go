// Package aid derives impediments from diagnostic-evaluation answers and
// turns them into technical-aid recommendations.
package aid

import (
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/pkg/textnorm"
)

const (
	ImpedimentReadingWriting = "Reading & Writing"
	ImpedimentMoneyHandling  = "Money Handling"
	ImpedimentCommunication  = "Communication"
	ImpedimentBehavioral     = "Behavioral"
)

// Rule fires its impediment when the answer to Question decodes to one of
// Triggers. Questions are matched on folded text.
type Rule struct {
	Question   string
	Triggers   []int
	Impediment string
}

// DefaultRules is the diagnostic-evaluation threshold table.
var DefaultRules = []Rule{
	{Question: "Reading level", Triggers: []int{0, 1, 2, 3}, Impediment: ImpedimentReadingWriting},
	{Question: "Writing level", Triggers: []int{0, 1, 2}, Impediment: ImpedimentReadingWriting},
	{Question: "Number knowledge", Triggers: []int{0, 1, 2, 3}, Impediment: ImpedimentMoneyHandling},
	{Question: "Addition level", Triggers: []int{0, 1}, Impediment: ImpedimentMoneyHandling},
	{Question: "Subtraction level", Triggers: []int{0, 1}, Impediment: ImpedimentMoneyHandling},
	{Question: "Money handling level", Triggers: []int{0, 1, 2}, Impediment: ImpedimentMoneyHandling},
	{Question: "Needs communication support", Triggers: []int{0}, Impediment: ImpedimentCommunication},
	{Question: "Observed behavioral issue", Triggers: []int{0}, Impediment: ImpedimentBehavioral},
}

// Answer is a decoded diagnostic-evaluation response. Options is the
// question's option table, used to read the valor of binary answers.
type Answer struct {
	QuestionText string
	Value        response.Value
	Options      []response.Option
}

// Detect returns the names of the impediments whose rules fire, in rule
// order and without duplicates.
func Detect(answers []Answer, rules []Rule) []string {
	byQuestion := make(map[string][]Rule, len(rules))
	for _, r := range rules {
		k := textnorm.Fold(r.Question)
		byQuestion[k] = append(byQuestion[k], r)
	}

	fired := make(map[string]bool)
	for _, a := range answers {
		n, ok := valor(a.Value, a.Options)
		if !ok {
			continue
		}
		for _, r := range byQuestion[textnorm.Fold(a.QuestionText)] {
			if contains(r.Triggers, n) {
				fired[r.Impediment] = true
			}
		}
	}

	out := make([]string, 0, len(fired))
	for _, r := range rules {
		if fired[r.Impediment] {
			out = append(out, r.Impediment)
			delete(fired, r.Impediment)
		}
	}
	return out
}

// valor reads the decoded option value. A binary answer takes the valor of
// the option labelled "si" or "no"; without such an option it counts as 1 for
// yes and 0 for no.
func valor(v response.Value, opts []response.Option) (int, bool) {
	switch v.Kind {
	case response.KindInt:
		return v.Int, true
	case response.KindFlag:
		want, label := 0, "no"
		if v.Flag {
			want, label = 1, "si"
		}
		for _, o := range opts {
			if textnorm.Fold(o.Text) == label {
				return o.Valor, true
			}
		}
		return want, true
	}
	return 0, false
}

func contains(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
