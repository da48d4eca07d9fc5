package providers

import (
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ammubhave/roslyn/structure"
)

// MarkdownProvider detects section, code fence, and comment spans in
// markdown documents using the goldmark AST.
type MarkdownProvider struct {
	md goldmark.Markdown
}

// NewMarkdownProvider returns the built-in markdown detector.
func NewMarkdownProvider() *MarkdownProvider {
	return &MarkdownProvider{md: goldmark.New()}
}

func (mp *MarkdownProvider) Name() string { return "markdown-blocks" }

type mdHeading struct {
	level  int
	start  int
	banner string
}

func (mp *MarkdownProvider) ProvideBlockSpans(sc *structure.Context) error {
	if sc.Cancelled() {
		return sc.Err()
	}
	source := []byte(sc.Snapshot().Text())
	root := mp.md.Parser().Parse(text.NewReader(source))

	var headings []mdHeading
	err := gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if sc.Cancelled() {
			return gast.WalkStop, sc.Err()
		}
		switch node := n.(type) {
		case *gast.Heading:
			if node.Lines().Len() == 0 {
				return gast.WalkContinue, nil
			}
			seg := node.Lines().At(0)
			headings = append(headings, mdHeading{
				level:  node.Level,
				start:  lineStart(source, seg.Start),
				banner: strings.TrimSpace(string(seg.Value(source))),
			})
		case *gast.FencedCodeBlock:
			if node.Lines().Len() == 0 {
				return gast.WalkContinue, nil
			}
			first := node.Lines().At(0)
			last := node.Lines().At(node.Lines().Len() - 1)
			banner := "```"
			if node.Info != nil {
				banner += string(node.Info.Segment.Value(source))
			}
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeStatement,
				Start:         first.Start,
				End:           last.Stop,
				Banner:        banner,
				IsCollapsible: true,
			})
		case *gast.HTMLBlock:
			if node.HTMLBlockType != gast.HTMLBlockType2 || node.Lines().Len() == 0 {
				return gast.WalkContinue, nil
			}
			first := node.Lines().At(0)
			last := node.Lines().At(node.Lines().Len() - 1)
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeComment,
				Start:         first.Start,
				End:           last.Stop,
				IsCollapsible: true,
			})
		}
		return gast.WalkContinue, nil
	})
	if err != nil {
		return err
	}

	// A heading section runs to the next heading of the same or a shallower
	// level, or to the end of the document.
	for i, heading := range headings {
		end := len(source)
		for _, next := range headings[i+1:] {
			if next.level <= heading.level {
				end = next.start
				break
			}
		}
		sc.Append(structure.BlockSpan{
			Type:          sectionType(heading.level),
			Start:         heading.start,
			End:           end,
			Banner:        heading.banner,
			IsCollapsible: true,
		})
	}
	return nil
}

func sectionType(level int) structure.BlockType {
	switch level {
	case 1:
		return structure.BlockTypeNamespace
	case 2:
		return structure.BlockTypeType
	default:
		return structure.BlockTypeMember
	}
}

// lineStart walks back to the beginning of the line containing off.
func lineStart(source []byte, off int) int {
	if off > len(source) {
		off = len(source)
	}
	for off > 0 && source[off-1] != '\n' {
		off--
	}
	return off
}
