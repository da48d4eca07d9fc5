package providers

import (
	"regexp"
	"strings"

	"github.com/ammubhave/roslyn/structure"
)

// Matches region and conditional-compilation markers at the start of a line.
// Postfix occurrences do not open a region.
var (
	regionStart = regexp.MustCompile(`^\s*#\s*region\b\s*(.*)$`)
	regionEnd   = regexp.MustCompile(`^\s*#\s*endregion\b`)
	condStart   = regexp.MustCompile(`^\s*#\s*if\b\s*(.*)$`)
	condEnd     = regexp.MustCompile(`^\s*#\s*endif\b`)
)

// RegionProvider detects #region/#endregion and #if/#endif pairs. Regions
// nest; unterminated markers produce no span.
type RegionProvider struct{}

// NewRegionProvider returns the built-in preprocessor-region detector.
func NewRegionProvider() *RegionProvider { return &RegionProvider{} }

func (rp *RegionProvider) Name() string { return "preprocessor-regions" }

type openRegion struct {
	start  int
	banner string
	cond   bool
}

func (rp *RegionProvider) ProvideBlockSpans(sc *structure.Context) error {
	if sc.Cancelled() {
		return sc.Err()
	}
	text := sc.Snapshot().Text()
	var stack []openRegion

	for offset := 0; offset < len(text); {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += offset
		}
		line := text[offset:lineEnd]

		switch {
		case regionStart.MatchString(line):
			label := strings.TrimSpace(regionStart.FindStringSubmatch(line)[1])
			if label == "" {
				label = "#region"
			}
			stack = append(stack, openRegion{start: offset, banner: label})
		case condStart.MatchString(line):
			label := strings.TrimSpace(condStart.FindStringSubmatch(line)[1])
			stack = append(stack, openRegion{start: offset, banner: "#if " + label, cond: true})
		case regionEnd.MatchString(line), condEnd.MatchString(line):
			wantCond := condEnd.MatchString(line)
			if n := len(stack); n > 0 && stack[n-1].cond == wantCond {
				region := stack[n-1]
				stack = stack[:n-1]
				sc.Append(structure.BlockSpan{
					Type:          structure.BlockTypePreprocessorRegion,
					Start:         region.start,
					End:           lineEnd,
					Banner:        region.banner,
					IsCollapsible: true,
					AutoCollapse:  !region.cond,
				})
			}
		}
		offset = lineEnd + 1
	}
	return nil
}
