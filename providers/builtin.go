package providers

import "github.com/ammubhave/roslyn/structure"

// RegisterBuiltins wires the fixed built-in provider set into a resolver.
// Registration order is execution order, so syntax-aware providers run
// before the generic line-based ones for the same language.
func RegisterBuiltins(resolver *structure.Resolver) {
	resolver.RegisterBuiltin("go", NewGoProvider())
	resolver.RegisterBuiltin("markdown", NewMarkdownProvider())
	resolver.RegisterBuiltin("csharp", NewCommentBlockProvider("//"), NewRegionProvider())
	resolver.RegisterBuiltin("fsharp", NewCommentBlockProvider("//"), NewRegionProvider())
	resolver.RegisterBuiltin("c", NewCommentBlockProvider("//"), NewRegionProvider())
	resolver.RegisterBuiltin("cpp", NewCommentBlockProvider("//"), NewRegionProvider())
	for _, lang := range []string{"python", "ruby", "shellscript", "yaml", "toml", "perl"} {
		resolver.RegisterBuiltin(lang, NewCommentBlockProvider("#"))
	}
	resolver.RegisterBuiltin("sql", NewCommentBlockProvider("--"))
	resolver.RegisterBuiltin("lua", NewCommentBlockProvider("--"))
}
