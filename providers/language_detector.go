package providers

import "path/filepath"

// LanguageDetector maps filenames/extensions to language identifiers.
type LanguageDetector struct {
	extensionMap map[string]string
	filenameMap  map[string]string
}

// NewLanguageDetector seeds defaults for the languages the built-in
// providers understand plus common editor identifiers.
func NewLanguageDetector() *LanguageDetector {
	ld := &LanguageDetector{
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	ld.extensionMap[".go"] = "go"
	ld.extensionMap[".md"] = "markdown"
	ld.extensionMap[".markdown"] = "markdown"
	ld.extensionMap[".cs"] = "csharp"
	ld.extensionMap[".fs"] = "fsharp"
	ld.extensionMap[".c"] = "c"
	ld.extensionMap[".h"] = "c"
	ld.extensionMap[".cpp"] = "cpp"
	ld.extensionMap[".hpp"] = "cpp"
	ld.extensionMap[".py"] = "python"
	ld.extensionMap[".rb"] = "ruby"
	ld.extensionMap[".sh"] = "shellscript"
	ld.extensionMap[".bash"] = "shellscript"
	ld.extensionMap[".yaml"] = "yaml"
	ld.extensionMap[".yml"] = "yaml"
	ld.extensionMap[".toml"] = "toml"
	ld.extensionMap[".pl"] = "perl"
	ld.extensionMap[".sql"] = "sql"
	ld.extensionMap[".lua"] = "lua"
	ld.filenameMap["Makefile"] = "makefile"
	ld.filenameMap["Dockerfile"] = "dockerfile"
	return ld
}

// Detect returns the best-effort language identifier for a path.
func (ld *LanguageDetector) Detect(path string) string {
	if path == "" {
		return "unknown"
	}
	base := filepath.Base(path)
	if lang, ok := ld.filenameMap[base]; ok {
		return lang
	}
	if lang, ok := ld.extensionMap[filepath.Ext(base)]; ok {
		return lang
	}
	return "unknown"
}
