package providers

import (
	"context"
	"regexp"
	"testing"

	"github.com/ammubhave/roslyn/structure"
)

func runProvider(t *testing.T, provider structure.Provider, language, content string) []*structure.BlockSpan {
	t.Helper()
	resolver := structure.NewResolver(nil)
	resolver.RegisterBuiltin(language, provider)
	service := structure.NewService(resolver, nil)
	doc := structure.TextDocument{Language: language, Content: content}
	st, err := service.ComputeBlockStructure(context.Background(), doc, structure.DefaultVisibilityPolicy())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	spans := make([]*structure.BlockSpan, 0, len(st.Spans))
	for i := range st.Spans {
		spans = append(spans, &st.Spans[i])
	}
	return spans
}

func findSpans(spans []*structure.BlockSpan, blockType structure.BlockType) []*structure.BlockSpan {
	var out []*structure.BlockSpan
	for _, span := range spans {
		if span.Type == blockType {
			out = append(out, span)
		}
	}
	return out
}

func TestLanguageDetector(t *testing.T) {
	detector := NewLanguageDetector()
	if lang := detector.Detect("main.go"); lang != "go" {
		t.Fatalf("expected go, got %s", lang)
	}
	if lang := detector.Detect("README.md"); lang != "markdown" {
		t.Fatalf("expected markdown, got %s", lang)
	}
	if lang := detector.Detect("Program.cs"); lang != "csharp" {
		t.Fatalf("expected csharp, got %s", lang)
	}
	if lang := detector.Detect("mystery.xyz"); lang != "unknown" {
		t.Fatalf("expected unknown fallback, got %s", lang)
	}
}

func TestGoProviderSpans(t *testing.T) {
	source := `package sample

import (
	"fmt"
	"strings"
)

// Greeter says hello.
// It is very polite.
type Greeter struct {
	Prefix string
}

func (g Greeter) Hello(name string) string {
	if name == "" {
		name = "world"
	}
	for i := 0; i < 2; i++ {
		fmt.Println(i)
	}
	return strings.ToUpper(g.Prefix + name)
}
`
	spans := runProvider(t, NewGoProvider(), "go", source)

	imports := findSpans(spans, structure.BlockTypeImports)
	if len(imports) != 1 {
		t.Fatalf("expected one imports span, got %d", len(imports))
	}
	if !imports[0].AutoCollapse {
		t.Fatal("imports span should auto-collapse")
	}
	types := findSpans(spans, structure.BlockTypeType)
	if len(types) != 1 || types[0].Banner != "type Greeter" {
		t.Fatalf("unexpected type spans: %+v", types)
	}
	members := findSpans(spans, structure.BlockTypeMember)
	if len(members) != 1 {
		t.Fatalf("expected one member span, got %d", len(members))
	}
	if members[0].Banner == "" {
		t.Fatal("member span should carry a signature banner")
	}
	if len(findSpans(spans, structure.BlockTypeConditional)) != 1 {
		t.Fatal("expected one conditional span for the if statement")
	}
	if len(findSpans(spans, structure.BlockTypeLoop)) != 1 {
		t.Fatal("expected one loop span for the for statement")
	}
	comments := findSpans(spans, structure.BlockTypeComment)
	if len(comments) != 1 {
		t.Fatalf("expected one multi-line comment span, got %d", len(comments))
	}
	for _, span := range spans {
		if span.Start > span.End || span.End > len(source) {
			t.Fatalf("span out of bounds: %+v", span)
		}
	}
}

func TestGoProviderToleratesBrokenSource(t *testing.T) {
	spans := runProvider(t, NewGoProvider(), "go", "package broken\nfunc (")
	if len(spans) != 0 {
		t.Fatalf("expected no spans for unparsable source, got %d", len(spans))
	}
}

func TestMarkdownProviderSpans(t *testing.T) {
	content := "# Title\n\nIntro text.\n\n## Section\n\n```go\nfmt.Println(\"hi\")\n```\n\n## Other\n\nmore\n"
	spans := runProvider(t, NewMarkdownProvider(), "markdown", content)

	namespaces := findSpans(spans, structure.BlockTypeNamespace)
	if len(namespaces) != 1 || namespaces[0].Banner != "Title" {
		t.Fatalf("unexpected level-1 sections: %+v", namespaces)
	}
	if namespaces[0].End != len(content) {
		t.Fatalf("level-1 section should run to end of document, got %d", namespaces[0].End)
	}
	sections := findSpans(spans, structure.BlockTypeType)
	if len(sections) != 2 {
		t.Fatalf("expected two level-2 sections, got %d", len(sections))
	}
	if sections[0].End > sections[1].Start {
		t.Fatalf("first section must end where the next starts: %+v", sections)
	}
	fences := findSpans(spans, structure.BlockTypeStatement)
	if len(fences) != 1 || fences[0].Banner != "```go" {
		t.Fatalf("unexpected code fence spans: %+v", fences)
	}
}

func TestCommentBlockProviderGroupsRuns(t *testing.T) {
	content := "# first\n# second\ncode()\n# lonely\ncode()\n  # indented a\n  # indented b\n"
	spans := runProvider(t, NewCommentBlockProvider("#"), "python", content)
	if len(spans) != 2 {
		t.Fatalf("expected two comment blocks (single-line runs skipped), got %d", len(spans))
	}
	if spans[0].Banner != "# first" {
		t.Fatalf("unexpected banner: %q", spans[0].Banner)
	}
	if spans[0].Type != structure.BlockTypeComment || spans[1].Type != structure.BlockTypeComment {
		t.Fatalf("comment blocks must use the comment type: %+v", spans)
	}
}

func TestRegionProviderPairsMarkers(t *testing.T) {
	content := "#region Setup\nvar a = 1;\n#if DEBUG\nlog(a);\n#endif\n#endregion\ncode();\n#endregion\n"
	spans := runProvider(t, NewRegionProvider(), "csharp", content)
	regions := findSpans(spans, structure.BlockTypePreprocessorRegion)
	if len(regions) != 2 {
		t.Fatalf("expected two paired regions, got %d", len(regions))
	}
	// Inner #if closes first.
	if regions[0].Banner != "#if DEBUG" || regions[0].AutoCollapse {
		t.Fatalf("unexpected conditional region: %+v", regions[0])
	}
	if regions[1].Banner != "Setup" || !regions[1].AutoCollapse {
		t.Fatalf("unexpected named region: %+v", regions[1])
	}
	if regions[0].Start < regions[1].Start || regions[0].End > regions[1].End {
		t.Fatalf("conditional region should nest inside the named one: %+v", regions)
	}
}

func TestPatternProviderBeginEnd(t *testing.T) {
	rules := []PatternRule{{
		Begin:       regexp.MustCompile(`^BEGIN\b`),
		End:         regexp.MustCompile(`^END\b`),
		Type:        structure.BlockTypeStatement,
		Collapsible: true,
	}}
	content := "BEGIN tx\ninsert\nEND\nplain\nBEGIN other\nnever closed\n"
	spans := runProvider(t, NewPatternProvider("sql-tx", rules), "sql", content)
	if len(spans) != 1 {
		t.Fatalf("expected one closed span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].Banner != "BEGIN tx" {
		t.Fatalf("unexpected span: %+v", spans[0])
	}
}

func TestPatternProviderIndentedBlock(t *testing.T) {
	rules := []PatternRule{{
		Begin:       regexp.MustCompile(`^\w+:$`),
		Type:        structure.BlockTypeType,
		Collapsible: true,
	}}
	content := "servers:\n  alpha: 1\n  beta: 2\ntop: value\n"
	spans := runProvider(t, NewPatternProvider("yaml-maps", rules), "yaml", content)
	if len(spans) != 1 {
		t.Fatalf("expected one indented block span, got %d", len(spans))
	}
	wantEnd := len("servers:\n  alpha: 1\n  beta: 2")
	if spans[0].End != wantEnd {
		t.Fatalf("block should stop before the dedented line: got %d want %d", spans[0].End, wantEnd)
	}
}
