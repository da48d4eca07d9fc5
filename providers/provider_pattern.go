package providers

import (
	"regexp"
	"strings"

	"github.com/ammubhave/roslyn/structure"
)

// PatternRule is one line-regex detection rule, typically loaded from a
// provider manifest. Begin opens a span; End closes it when set, otherwise
// the span runs to the end of the more-indented block that follows.
type PatternRule struct {
	Begin        *regexp.Regexp
	End          *regexp.Regexp
	Type         structure.BlockType
	Collapsible  bool
	AutoCollapse bool
}

// PatternProvider evaluates a rule list against a document line by line.
// Rules are applied in order; each match contributes one span.
type PatternProvider struct {
	name  string
	rules []PatternRule
}

// NewPatternProvider builds a provider from compiled rules.
func NewPatternProvider(name string, rules []PatternRule) *PatternProvider {
	return &PatternProvider{name: name, rules: rules}
}

func (pp *PatternProvider) Name() string { return pp.name }

func (pp *PatternProvider) ProvideBlockSpans(sc *structure.Context) error {
	if sc.Cancelled() {
		return sc.Err()
	}
	text := sc.Snapshot().Text()
	lines := splitLines(text)
	for _, rule := range pp.rules {
		if sc.Cancelled() {
			return sc.Err()
		}
		pp.applyRule(sc, rule, lines)
	}
	return nil
}

type docLine struct {
	start int
	end   int
	text  string
}

func splitLines(text string) []docLine {
	var lines []docLine
	for offset := 0; offset <= len(text); {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		if lineEnd < 0 {
			lines = append(lines, docLine{start: offset, end: len(text), text: text[offset:]})
			break
		}
		lineEnd += offset
		lines = append(lines, docLine{start: offset, end: lineEnd, text: text[offset:lineEnd]})
		offset = lineEnd + 1
	}
	return lines
}

func (pp *PatternProvider) applyRule(sc *structure.Context, rule PatternRule, lines []docLine) {
	for i := 0; i < len(lines); i++ {
		begin := lines[i]
		if !rule.Begin.MatchString(begin.text) {
			continue
		}
		end := -1
		if rule.End != nil {
			for j := i + 1; j < len(lines); j++ {
				if rule.End.MatchString(lines[j].text) {
					end = lines[j].end
					i = j
					break
				}
			}
		} else {
			end = indentedBlockEnd(lines, i)
		}
		if end < 0 {
			continue
		}
		sc.Append(structure.BlockSpan{
			Type:          rule.Type,
			Start:         begin.start,
			End:           end,
			Banner:        strings.TrimSpace(begin.text),
			IsCollapsible: rule.Collapsible,
			AutoCollapse:  rule.AutoCollapse,
		})
	}
}

// indentedBlockEnd extends a match through the following lines that are
// blank or indented deeper than the matched line.
func indentedBlockEnd(lines []docLine, start int) int {
	base := indentOf(lines[start].text)
	end := lines[start].end
	for j := start + 1; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j].text)
		if trimmed == "" {
			continue
		}
		if indentOf(lines[j].text) <= base {
			break
		}
		end = lines[j].end
	}
	return end
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
