package structure

// Document is the snapshot a block structure pass reads against. Text,
// language, and version are fixed for the lifetime of a request so every
// provider observes the same content.
type Document interface {
	Text() string
	LanguageID() string
	Version() int
}

// TextDocument is a plain in-memory Document.
type TextDocument struct {
	Language string
	Revision int
	Content  string
}

func (d TextDocument) Text() string       { return d.Content }
func (d TextDocument) LanguageID() string { return d.Language }
func (d TextDocument) Version() int       { return d.Revision }
