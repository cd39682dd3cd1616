package transaction

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Rule is one intent-classification rule: the rule fires when any keyword
// occurs in the utterance and the optional guard evaluates to true.
// Guards are CEL expressions over the variable `text` and exist so operators
// can suppress known false positives (the single-character "사" purchase
// trigger over-matches) without a code change.
type Rule struct {
	Action   Action   `json:"action"`
	Keywords []string `json:"keywords"`
	Guard    string   `json:"guard,omitempty"`
}

// DefaultRules returns the standing keyword table.
// Order matters: first matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{Action: ActionSale, Keywords: []string{"팔아", "판매", "출하"}},
		{Action: ActionPurchase, Keywords: []string{"사", "구매", "입고"}},
		{Action: ActionProductionReceipt, Keywords: []string{"생산", "완료"}},
	}
}

// Classifier determines transaction intent from free text.
type Classifier struct {
	rules []compiledRule
}

type compiledRule struct {
	rule  Rule
	guard cel.Program // nil when the rule has no guard
}

// NewClassifier compiles the rule table. Guard compilation errors are
// reported eagerly so a broken rule file fails at startup, not per request.
func NewClassifier(rules []Rule) (*Classifier, error) {
	env, err := cel.NewEnv(cel.Variable("text", cel.StringType))
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if !r.Action.Valid() {
			return nil, fmt.Errorf("rule %d: unknown action %q", i, r.Action)
		}
		cr := compiledRule{rule: r}
		if r.Guard != "" {
			ast, iss := env.Compile(r.Guard)
			if iss != nil && iss.Err() != nil {
				return nil, fmt.Errorf("rule %d guard: %w", i, iss.Err())
			}
			prg, err := env.Program(ast)
			if err != nil {
				return nil, fmt.Errorf("rule %d guard program: %w", i, err)
			}
			cr.guard = prg
		}
		compiled = append(compiled, cr)
	}

	return &Classifier{rules: compiled}, nil
}

// MustClassifier builds a classifier from the default rule table.
func MustClassifier() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the transaction intent for the utterance.
// The second return value is false when no rule fired.
func (c *Classifier) Classify(text string) (Action, bool) {
	for _, cr := range c.rules {
		if !containsAny(text, cr.rule.Keywords) {
			continue
		}
		if cr.guard != nil && !c.guardPasses(cr.guard, text) {
			continue
		}
		return cr.rule.Action, true
	}
	return "", false
}

// guardPasses evaluates a guard. Evaluation failures are fail-open: the rule
// still fires, matching the guardless behavior.
func (c *Classifier) guardPasses(prg cel.Program, text string) bool {
	out, _, err := prg.Eval(map[string]any{"text": text})
	if err != nil {
		return true
	}
	pass, ok := out.Value().(bool)
	if !ok {
		return true
	}
	return pass
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
