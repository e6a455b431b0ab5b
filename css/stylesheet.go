// Package css implements the micro-engine behind HTML conversion: a cascade
// store of style-block rules ("last rule wins", no specificity) and a value
// parser that turns CSS property text into the converter's normalized
// property vocabulary.
package css

import (
	"bytes"
	"strings"

	tdparse "github.com/tdewolff/parse/v2"
	tdcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"hfc/markup"
)

// Rule is one simple selector paired with its declaration text. Rules keep
// document order; matching runs in reverse so the last declared rule wins.
type Rule struct {
	Selector     string
	Declarations string
}

// Stylesheet stores the rules discovered from a document's <style> blocks.
type Stylesheet struct {
	log   *zap.Logger
	rules []Rule
}

// NewStylesheet creates an empty stylesheet store.
func NewStylesheet(log *zap.Logger) *Stylesheet {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stylesheet{log: log.Named("css")}
}

// Rules returns the stored rules in document order.
func (s *Stylesheet) Rules() []Rule {
	return s.rules
}

// Discover walks the element tree and feeds the text of every <style>
// element to the rule scanner, in document order.
func (s *Stylesheet) Discover(root *html.Node) {
	if root == nil {
		return
	}
	if root.Type == html.ElementNode && root.Data == "style" {
		s.AddStyleText(markup.TextContent(root))
		return
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		s.Discover(c)
	}
}

// AddStyleText scans a stylesheet body for "selector { declarations }"
// blocks and stores one rule per comma-separated selector compound.
// @-rules are skipped whole; comments are handled by the scanner.
func (s *Stylesheet) AddStyleText(cssText string) {
	input := tdparse.NewInput(bytes.NewReader([]byte(cssText)))
	parser := tdcss.NewParser(input, false)

	var pending []string
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tdcss.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				s.log.Debug("CSS scan ended with error", zap.Error(parser.Err()))
			}
			return

		case tdcss.BeginAtRuleGrammar:
			s.log.Debug("Skipping @-rule block", zap.String("rule", string(data)))
			s.skipAtRuleBlock(parser)

		case tdcss.AtRuleGrammar:
			s.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case tdcss.QualifiedRuleGrammar:
			// selector group member, its ruleset is still to come
			pending = append(pending, splitSelectors(data, parser.Values())...)

		case tdcss.BeginRulesetGrammar:
			selectors := append(pending, splitSelectors(data, parser.Values())...)
			pending = nil
			declarations := s.collectDeclarations(parser)
			for _, sel := range selectors {
				s.AddRule(sel, declarations)
			}
		}
	}
}

// AddRule normalizes and stores a single rule. Empty selectors or empty
// declaration bodies are rejected.
func (s *Stylesheet) AddRule(selector, declarations string) bool {
	selector = strings.ToLower(strings.TrimSpace(selector))
	declarations = strings.ToLower(strings.TrimSpace(declarations))
	if selector == "" || declarations == "" {
		return false
	}
	s.rules = append(s.rules, Rule{Selector: selector, Declarations: declarations})
	return true
}

// StyleFor returns the declaration text of the last stored rule whose
// selector matches the element on top of the source context stack, or "".
//
// Only the last space-delimited token of a selector is evaluated - ancestor
// combinators are accepted syntactically but never matched, consistent with
// the no-specificity design.
func (s *Stylesheet) StyleFor(elementName string, context []*html.Node) string {
	if len(context) == 0 {
		return ""
	}
	el := context[len(context)-1]
	for i := len(s.rules) - 1; i >= 0; i-- {
		levels := strings.Fields(s.rules[i].Selector)
		if len(levels) == 0 {
			continue
		}
		if matchSelectorLevel(levels[len(levels)-1], elementName, el) {
			return s.rules[i].Declarations
		}
	}
	return ""
}

// matchSelectorLevel matches one simple selector token (tag, tag.class,
// tag#id, .class, #id) against a single element.
func matchSelectorLevel(level, elementName string, el *html.Node) bool {
	var tag, id, class string
	switch {
	case strings.Contains(level, "."):
		before, after, _ := strings.Cut(level, ".")
		tag, class = before, after
	case strings.Contains(level, "#"):
		before, after, _ := strings.Cut(level, "#")
		tag, id = before, after
	default:
		tag = level
	}

	if tag != "" && tag != elementName {
		return false
	}
	if id != "" {
		if v, ok := markup.GetAttribute(el, "id"); !ok || v != id {
			return false
		}
	}
	if class != "" {
		if v, ok := markup.GetAttribute(el, "class"); !ok || v != class {
			return false
		}
	}
	return true
}

// collectDeclarations drains the current ruleset into "name: value;" text.
func (s *Stylesheet) collectDeclarations(parser *tdcss.Parser) string {
	var b strings.Builder
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tdcss.ErrorGrammar, tdcss.EndRulesetGrammar:
			return b.String()
		case tdcss.DeclarationGrammar:
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.Write(data)
			b.WriteString(": ")
			b.WriteString(joinTokens(parser.Values()))
			b.WriteByte(';')
		case tdcss.CustomPropertyGrammar:
			// --custom properties have no place in the property vocabulary
			continue
		}
	}
}

// skipAtRuleBlock skips to the matching end of an @-rule block.
func (s *Stylesheet) skipAtRuleBlock(parser *tdcss.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case tdcss.ErrorGrammar:
			return
		case tdcss.BeginAtRuleGrammar, tdcss.BeginRulesetGrammar:
			depth++
		case tdcss.EndAtRuleGrammar, tdcss.EndRulesetGrammar:
			depth--
		}
	}
}

// splitSelectors builds the full selector string from scanner tokens and
// splits grouped selectors on commas.
func splitSelectors(data []byte, values []tdcss.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// joinTokens renders value tokens back to text with single spaces.
func joinTokens(tokens []tdcss.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != tdcss.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
