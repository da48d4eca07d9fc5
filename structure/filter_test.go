package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierTypes() map[string][]BlockType {
	return map[string][]BlockType{
		"declaration": {BlockTypeImports, BlockTypeNamespace, BlockTypeType, BlockTypeMember},
		"code":        {BlockTypeStatement, BlockTypeConditional, BlockTypeLoop, BlockTypeExpression},
		"comment":     {BlockTypeComment, BlockTypePreprocessorRegion},
	}
}

func policyWithoutGuides(tier string) VisibilityPolicy {
	policy := DefaultVisibilityPolicy()
	switch tier {
	case "declaration":
		policy.ShowGuidesDeclarationLevel = false
	case "code":
		policy.ShowGuidesCodeLevel = false
	case "comment":
		policy.ShowGuidesCommentsAndPreprocessor = false
	}
	return policy
}

func policyWithoutOutlining(tier string) VisibilityPolicy {
	policy := DefaultVisibilityPolicy()
	switch tier {
	case "declaration":
		policy.ShowOutliningDeclarationLevel = false
	case "code":
		policy.ShowOutliningCodeLevel = false
	case "comment":
		policy.ShowOutliningCommentsAndPreprocessor = false
	}
	return policy
}

func TestFilterGuideDemotionPerTier(t *testing.T) {
	for tier := range tierTypes() {
		policy := policyWithoutGuides(tier)
		for otherTier, otherTypes := range tierTypes() {
			for _, blockType := range otherTypes {
				span := BlockSpan{Type: blockType, Start: 0, End: 10, IsCollapsible: true}
				out := FilterBlockStructure([]BlockSpan{span}, policy)
				require.Len(t, out, 1)
				if otherTier == tier {
					assert.Equal(t, BlockTypeNonstructural, out[0].Type,
						"%s span must be demoted when %s guides are off", blockType, tier)
				} else {
					assert.Equal(t, blockType, out[0].Type,
						"%s span must keep its type when only %s guides are off", blockType, tier)
				}
				assert.True(t, out[0].IsCollapsible, "guide flag must not touch collapsibility")
			}
		}
	}
}

func TestFilterOutliningSuppressionPerTier(t *testing.T) {
	for tier := range tierTypes() {
		policy := policyWithoutOutlining(tier)
		for otherTier, otherTypes := range tierTypes() {
			for _, blockType := range otherTypes {
				span := BlockSpan{Type: blockType, Start: 0, End: 10, IsCollapsible: true}
				out := FilterBlockStructure([]BlockSpan{span}, policy)
				require.Len(t, out, 1)
				assert.Equal(t, blockType, out[0].Type, "outlining flag must not touch the type")
				if otherTier == tier {
					assert.False(t, out[0].IsCollapsible,
						"%s span must lose its fold when %s outlining is off", blockType, tier)
				} else {
					assert.True(t, out[0].IsCollapsible,
						"%s span must keep its fold when only %s outlining is off", blockType, tier)
				}
			}
		}
	}
}

func TestFilterDemotionAndSuppressionAreIndependent(t *testing.T) {
	span := BlockSpan{Type: BlockTypeComment, Start: 4, End: 40, IsCollapsible: true}

	// Demoted but still collapsible.
	policy := DefaultVisibilityPolicy()
	policy.ShowGuidesCommentsAndPreprocessor = false
	out := FilterBlockStructure([]BlockSpan{span}, policy)
	require.Len(t, out, 1)
	assert.Equal(t, BlockTypeNonstructural, out[0].Type)
	assert.True(t, out[0].IsCollapsible)

	// Suppressed but still carrying the guide.
	policy = DefaultVisibilityPolicy()
	policy.ShowOutliningCommentsAndPreprocessor = false
	out = FilterBlockStructure([]BlockSpan{span}, policy)
	require.Len(t, out, 1)
	assert.Equal(t, BlockTypeComment, out[0].Type)
	assert.False(t, out[0].IsCollapsible)

	// Both at once: suppression still keys off the original tier, not the
	// demoted sentinel.
	policy = DefaultVisibilityPolicy()
	policy.ShowGuidesCommentsAndPreprocessor = false
	policy.ShowOutliningCommentsAndPreprocessor = false
	out = FilterBlockStructure([]BlockSpan{span}, policy)
	require.Len(t, out, 1)
	assert.Equal(t, BlockTypeNonstructural, out[0].Type)
	assert.False(t, out[0].IsCollapsible)
}

func TestFilterUnrecognizedTypesAreInvariant(t *testing.T) {
	policy := VisibilityPolicy{} // every switch off
	spans := []BlockSpan{
		{Type: BlockTypeNonstructural, Start: 0, End: 5, IsCollapsible: true},
		{Type: BlockType("vendor_custom"), Start: 5, End: 9, IsCollapsible: true, AutoCollapse: true},
	}
	out := FilterBlockStructure(spans, policy)
	require.Len(t, out, len(spans))
	assert.Equal(t, spans, out)
}

func TestFilterPreservesCountOrderAndOtherFields(t *testing.T) {
	spans := []BlockSpan{
		{Type: BlockTypeMember, Start: 0, End: 30, Banner: "func a()", IsCollapsible: true, AutoCollapse: true},
		{Type: BlockTypeLoop, Start: 10, End: 20, IsCollapsible: true},
		{Type: BlockTypeComment, Start: 31, End: 60, Banner: "// ...", IsCollapsible: true},
	}
	policy := VisibilityPolicy{} // everything off
	out := FilterBlockStructure(spans, policy)
	require.Len(t, out, len(spans))
	for i, span := range spans {
		assert.Equal(t, BlockTypeNonstructural, out[i].Type)
		assert.False(t, out[i].IsCollapsible)
		assert.Equal(t, span.Start, out[i].Start)
		assert.Equal(t, span.End, out[i].End)
		assert.Equal(t, span.Banner, out[i].Banner)
		assert.Equal(t, span.AutoCollapse, out[i].AutoCollapse)
	}
}

func TestFilterDeclarationSpanUnchangedWhenEnabled(t *testing.T) {
	span := BlockSpan{Type: BlockTypeType, Start: 0, End: 120, Banner: "type Parser struct", IsCollapsible: true}
	out := FilterBlockStructure([]BlockSpan{span}, DefaultVisibilityPolicy())
	require.Len(t, out, 1)
	assert.Equal(t, span, out[0])
}

func TestFilterCommentDemotedButFoldable(t *testing.T) {
	policy := DefaultVisibilityPolicy()
	policy.ShowGuidesCommentsAndPreprocessor = false
	span := BlockSpan{Type: BlockTypeComment, Start: 0, End: 80, IsCollapsible: true}
	out := FilterBlockStructure([]BlockSpan{span}, policy)
	require.Len(t, out, 1)
	assert.Equal(t, BlockTypeNonstructural, out[0].Type)
	assert.True(t, out[0].IsCollapsible)
}
