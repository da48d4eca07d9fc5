package structure

// VisibilityPolicy holds the six per-language switches controlling
// indentation guides and outlining. It is resolved once before a request and
// never mutated during one.
type VisibilityPolicy struct {
	ShowGuidesDeclarationLevel           bool `yaml:"show_guides_declaration_level" json:"show_guides_declaration_level"`
	ShowGuidesCodeLevel                  bool `yaml:"show_guides_code_level" json:"show_guides_code_level"`
	ShowGuidesCommentsAndPreprocessor    bool `yaml:"show_guides_comments_and_preprocessor" json:"show_guides_comments_and_preprocessor"`
	ShowOutliningDeclarationLevel        bool `yaml:"show_outlining_declaration_level" json:"show_outlining_declaration_level"`
	ShowOutliningCodeLevel               bool `yaml:"show_outlining_code_level" json:"show_outlining_code_level"`
	ShowOutliningCommentsAndPreprocessor bool `yaml:"show_outlining_comments_and_preprocessor" json:"show_outlining_comments_and_preprocessor"`
}

// DefaultVisibilityPolicy enables every guide and outlining switch.
func DefaultVisibilityPolicy() VisibilityPolicy {
	return VisibilityPolicy{
		ShowGuidesDeclarationLevel:           true,
		ShowGuidesCodeLevel:                  true,
		ShowGuidesCommentsAndPreprocessor:    true,
		ShowOutliningDeclarationLevel:        true,
		ShowOutliningCodeLevel:               true,
		ShowOutliningCommentsAndPreprocessor: true,
	}
}

// FilterBlockStructure applies the visibility policy to every raw span
// independently. It never adds or removes spans and only rewrites two fields:
// the type (guide demotion to nonstructural) and the fold flag (outlining
// suppression). Both rules classify against the span's original tier, so a
// demoted span can stay collapsible and a suppressed span can keep its guide.
func FilterBlockStructure(spans []BlockSpan, policy VisibilityPolicy) []BlockSpan {
	filtered := make([]BlockSpan, 0, len(spans))
	for _, span := range spans {
		filtered = append(filtered, filterSpan(span, policy))
	}
	return filtered
}

func filterSpan(span BlockSpan, policy VisibilityPolicy) BlockSpan {
	// Spans outside the three tiers, including the nonstructural sentinel,
	// pass through exactly as produced.
	switch {
	case span.Type.IsDeclarationLevelConstruct():
		if !policy.ShowGuidesDeclarationLevel {
			span = span.WithType(BlockTypeNonstructural)
		}
		if span.IsCollapsible && !policy.ShowOutliningDeclarationLevel {
			span = span.WithIsCollapsible(false)
		}
	case span.Type.IsCodeLevelConstruct():
		if !policy.ShowGuidesCodeLevel {
			span = span.WithType(BlockTypeNonstructural)
		}
		if span.IsCollapsible && !policy.ShowOutliningCodeLevel {
			span = span.WithIsCollapsible(false)
		}
	case span.Type.IsCommentOrPreprocessorRegion():
		if !policy.ShowGuidesCommentsAndPreprocessor {
			span = span.WithType(BlockTypeNonstructural)
		}
		if span.IsCollapsible && !policy.ShowOutliningCommentsAndPreprocessor {
			span = span.WithIsCollapsible(false)
		}
	}
	return span
}
