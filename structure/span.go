package structure

// BlockType tags a block span with its structural category. The set is
// extensible: providers may emit types outside this list, and the visibility
// filter leaves such spans untouched.
type BlockType string

const (
	// Declaration-level constructs.
	BlockTypeImports   BlockType = "imports"
	BlockTypeNamespace BlockType = "namespace"
	BlockTypeType      BlockType = "type"
	BlockTypeMember    BlockType = "member"

	// Code-level constructs.
	BlockTypeStatement   BlockType = "statement"
	BlockTypeConditional BlockType = "conditional"
	BlockTypeLoop        BlockType = "loop"
	BlockTypeExpression  BlockType = "expression"

	// Comments and preprocessor regions.
	BlockTypeComment            BlockType = "comment"
	BlockTypePreprocessorRegion BlockType = "preprocessor_region"

	// BlockTypeNonstructural marks a span that carries no indentation-guide
	// semantics. Range and fold metadata are retained.
	BlockTypeNonstructural BlockType = "nonstructural"
)

// IsDeclarationLevelConstruct reports whether the type belongs to the
// declaration tier (type/namespace/module-scope constructs).
func (t BlockType) IsDeclarationLevelConstruct() bool {
	switch t {
	case BlockTypeImports, BlockTypeNamespace, BlockTypeType, BlockTypeMember:
		return true
	}
	return false
}

// IsCodeLevelConstruct reports whether the type belongs to the code tier
// (statements and member-body constructs).
func (t BlockType) IsCodeLevelConstruct() bool {
	switch t {
	case BlockTypeStatement, BlockTypeConditional, BlockTypeLoop, BlockTypeExpression:
		return true
	}
	return false
}

// IsCommentOrPreprocessorRegion reports whether the type belongs to the
// comment/preprocessor tier.
func (t BlockType) IsCommentOrPreprocessorRegion() bool {
	switch t {
	case BlockTypeComment, BlockTypePreprocessorRegion:
		return true
	}
	return false
}

// BlockSpan is one structural region of a document. Spans are immutable
// values: reclassification goes through WithType / WithIsCollapsible, which
// return a copy.
type BlockSpan struct {
	Type          BlockType `json:"type"`
	Start         int       `json:"start"`
	End           int       `json:"end"`
	Banner        string    `json:"banner,omitempty"`
	IsCollapsible bool      `json:"is_collapsible"`
	AutoCollapse  bool      `json:"auto_collapse,omitempty"`
}

// WithType returns a copy of the span with a rewritten type.
func (s BlockSpan) WithType(t BlockType) BlockSpan {
	s.Type = t
	return s
}

// WithIsCollapsible returns a copy of the span with the fold flag rewritten.
func (s BlockSpan) WithIsCollapsible(collapsible bool) BlockSpan {
	s.IsCollapsible = collapsible
	return s
}

// BlockStructure is the final artifact of one pass: the ordered, filtered
// span sequence. Callers must not mutate it.
type BlockStructure struct {
	Spans []BlockSpan `json:"spans"`
}
