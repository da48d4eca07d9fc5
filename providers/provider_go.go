package providers

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"

	"github.com/ammubhave/roslyn/structure"
)

// GoProvider detects block spans in Go source using go/parser.
type GoProvider struct{}

// NewGoProvider returns the built-in Go detector.
func NewGoProvider() *GoProvider { return &GoProvider{} }

func (gp *GoProvider) Name() string { return "go-blocks" }

// ProvideBlockSpans appends declaration, statement, and comment spans. A
// source that fails to parse (a half-typed document) yields no spans and no
// error.
func (gp *GoProvider) ProvideBlockSpans(sc *structure.Context) error {
	if sc.Cancelled() {
		return sc.Err()
	}
	doc := sc.Snapshot()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "document.go", doc.Text(), parser.ParseComments)
	if err != nil {
		return nil
	}
	offset := func(pos token.Pos) int { return fset.Position(pos).Offset }
	line := func(pos token.Pos) int { return fset.Position(pos).Line }

	for _, group := range file.Comments {
		if line(group.End()) == line(group.Pos()) {
			continue
		}
		sc.Append(structure.BlockSpan{
			Type:          structure.BlockTypeComment,
			Start:         offset(group.Pos()),
			End:           offset(group.End()),
			Banner:        commentBanner(group),
			IsCollapsible: true,
		})
	}

	for _, decl := range file.Decls {
		if sc.Cancelled() {
			return sc.Err()
		}
		switch d := decl.(type) {
		case *goast.GenDecl:
			gp.appendGenDecl(sc, fset, d)
		case *goast.FuncDecl:
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeMember,
				Start:         offset(d.Pos()),
				End:           offset(d.End()),
				Banner:        signature(d),
				IsCollapsible: true,
			})
			if d.Body != nil {
				gp.appendBodySpans(sc, fset, d.Body)
			}
		}
	}
	return nil
}

func (gp *GoProvider) appendGenDecl(sc *structure.Context, fset *token.FileSet, decl *goast.GenDecl) {
	offset := func(pos token.Pos) int { return fset.Position(pos).Offset }
	if decl.Tok == token.IMPORT {
		if !decl.Lparen.IsValid() {
			return
		}
		sc.Append(structure.BlockSpan{
			Type:          structure.BlockTypeImports,
			Start:         offset(decl.Pos()),
			End:           offset(decl.End()),
			Banner:        "import (...)",
			IsCollapsible: true,
			AutoCollapse:  true,
		})
		return
	}
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*goast.TypeSpec)
		if !ok {
			continue
		}
		switch typeSpec.Type.(type) {
		case *goast.StructType, *goast.InterfaceType:
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeType,
				Start:         offset(typeSpec.Pos()),
				End:           offset(typeSpec.End()),
				Banner:        "type " + typeSpec.Name.Name,
				IsCollapsible: true,
			})
		}
	}
}

func (gp *GoProvider) appendBodySpans(sc *structure.Context, fset *token.FileSet, body *goast.BlockStmt) {
	offset := func(pos token.Pos) int { return fset.Position(pos).Offset }
	goast.Inspect(body, func(n goast.Node) bool {
		switch stmt := n.(type) {
		case *goast.IfStmt:
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeConditional,
				Start:         offset(stmt.Pos()),
				End:           offset(stmt.End()),
				IsCollapsible: true,
			})
		case *goast.ForStmt, *goast.RangeStmt:
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeLoop,
				Start:         offset(n.Pos()),
				End:           offset(n.End()),
				IsCollapsible: true,
			})
		case *goast.SwitchStmt, *goast.TypeSwitchStmt, *goast.SelectStmt:
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeConditional,
				Start:         offset(n.Pos()),
				End:           offset(n.End()),
				IsCollapsible: true,
			})
		case *goast.FuncLit:
			sc.Append(structure.BlockSpan{
				Type:          structure.BlockTypeExpression,
				Start:         offset(stmt.Pos()),
				End:           offset(stmt.End()),
				IsCollapsible: true,
			})
		}
		return true
	})
}

func commentBanner(group *goast.CommentGroup) string {
	text := strings.TrimSpace(group.List[0].Text)
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	return text
}

func signature(fn *goast.FuncDecl) string {
	builder := strings.Builder{}
	builder.WriteString("func ")
	if fn.Recv != nil {
		builder.WriteString("(")
		builder.WriteString(formatFieldList(fn.Recv))
		builder.WriteString(") ")
	}
	builder.WriteString(fn.Name.Name)
	builder.WriteString("(")
	builder.WriteString(formatFieldList(fn.Type.Params))
	builder.WriteString(")")
	return builder.String()
}

func formatFieldList(list *goast.FieldList) string {
	if list == nil {
		return ""
	}
	parts := make([]string, 0, len(list.List))
	for _, field := range list.List {
		parts = append(parts, formatField(field))
	}
	return strings.Join(parts, ", ")
}

func formatField(field *goast.Field) string {
	if field == nil {
		return ""
	}
	var builder strings.Builder
	names := make([]string, 0, len(field.Names))
	for _, name := range field.Names {
		names = append(names, name.Name)
	}
	if len(names) > 0 {
		builder.WriteString(strings.Join(names, ", "))
		builder.WriteString(" ")
	}
	builder.WriteString(types.ExprString(field.Type))
	return builder.String()
}
