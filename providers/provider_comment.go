package providers

import (
	"strings"

	"github.com/ammubhave/roslyn/structure"
)

// CommentBlockProvider groups consecutive line comments into comment spans.
// It is language-agnostic beyond the comment prefix, so languages without a
// dedicated syntax provider still fold their comment banners.
type CommentBlockProvider struct {
	prefix string
}

// NewCommentBlockProvider builds a detector for the given line-comment
// prefix ("//", "#", "--", ...).
func NewCommentBlockProvider(prefix string) *CommentBlockProvider {
	return &CommentBlockProvider{prefix: prefix}
}

func (cp *CommentBlockProvider) Name() string { return "comment-blocks" }

func (cp *CommentBlockProvider) ProvideBlockSpans(sc *structure.Context) error {
	if sc.Cancelled() {
		return sc.Err()
	}
	text := sc.Snapshot().Text()
	blockStart := -1
	blockEnd := 0
	blockLines := 0
	var banner string

	flush := func() {
		if blockStart >= 0 && blockLines > 1 {
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeComment,
				Start:         blockStart,
				End:           blockEnd,
				Banner:        banner,
				IsCollapsible: true,
			})
		}
		blockStart = -1
		blockLines = 0
	}

	for offset := 0; offset < len(text); {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += offset
		}
		line := text[offset:lineEnd]
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, cp.prefix) {
			indent := offset + (len(line) - len(strings.TrimLeft(line, " \t")))
			if blockStart < 0 {
				blockStart = indent
				banner = trimmed
			}
			blockEnd = lineEnd
			blockLines++
		} else {
			flush()
		}
		offset = lineEnd + 1
	}
	flush()
	return nil
}
