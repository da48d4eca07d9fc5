package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/ammubhave/roslyn/structure"
)

// PolicyResolver supplies the visibility policy used when a client asks for
// folding ranges. config.Config satisfies it.
type PolicyResolver interface {
	PolicyFor(languageID string) structure.VisibilityPolicy
}

// LSPServer answers textDocument/foldingRange requests over JSON-RPC by
// running the block structure pipeline against documents the editor has open.
type LSPServer struct {
	service       *structure.Service
	policies      PolicyResolver
	mu            sync.RWMutex
	openDocuments map[protocol.DocumentURI]*Document
	logger        *log.Logger
}

// Document tracks open files from the editor.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string
	Version    int
	Text       string
}

// InitializeParams partial struct.
type InitializeParams struct {
	RootURI string `json:"rootUri"`
	Client  string `json:"clientInfo"`
}

// InitializeResult partial struct.
type InitializeResult struct {
	Capabilities map[string]interface{} `json:"capabilities"`
}

// NewLSPServer builds a server instance.
func NewLSPServer(service *structure.Service, policies PolicyResolver, logger *log.Logger) *LSPServer {
	if logger == nil {
		logger = log.Default()
	}
	return &LSPServer{
		service:       service,
		policies:      policies,
		openDocuments: make(map[protocol.DocumentURI]*Document),
		logger:        logger,
	}
}

// Initialize handles the LSP initialize request.
func (s *LSPServer) Initialize(params InitializeParams) (*InitializeResult, error) {
	s.logger.Printf("LSP initialize from %s", params.Client)
	result := &InitializeResult{
		Capabilities: map[string]interface{}{
			"textDocumentSync":     1,
			"foldingRangeProvider": true,
		},
	}
	return result, nil
}

// TextDocumentDidOpen stores document state.
func (s *LSPServer) TextDocumentDidOpen(uri protocol.DocumentURI, languageID string, version int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openDocuments[uri] = &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		Text:       text,
	}
	return nil
}

// TextDocumentDidChange updates document text. The server negotiates full
// sync, so the last content change carries the whole document.
func (s *LSPServer) TextDocumentDidChange(uri protocol.DocumentURI, version int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.openDocuments[uri]
	if !ok {
		return fmt.Errorf("document %s not tracked", uri)
	}
	doc.Text = text
	doc.Version = version
	return nil
}

// TextDocumentDidClose drops document state.
func (s *LSPServer) TextDocumentDidClose(uri protocol.DocumentURI) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.openDocuments, uri)
	return nil
}

// FoldingRange computes the block structure for an open document and maps the
// collapsible spans onto LSP folding ranges.
func (s *LSPServer) FoldingRange(ctx context.Context, uri protocol.DocumentURI) ([]protocol.FoldingRange, error) {
	// Copy the document under the lock; didChange rewrites the tracked
	// struct in place.
	s.mu.RLock()
	tracked, ok := s.openDocuments[uri]
	var doc Document
	if ok {
		doc = *tracked
	}
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document %s not tracked", uri)
	}

	td := structure.TextDocument{
		Language: doc.LanguageID,
		Revision: doc.Version,
		Content:  doc.Text,
	}
	policy := structure.DefaultVisibilityPolicy()
	if s.policies != nil {
		policy = s.policies.PolicyFor(doc.LanguageID)
	}
	bs, err := s.service.ComputeBlockStructure(ctx, td, policy)
	if err != nil {
		return nil, err
	}

	lines := lineOffsets(doc.Text)
	var ranges []protocol.FoldingRange
	for _, span := range bs.Spans {
		if !span.IsCollapsible {
			continue
		}
		startLine, startChar := positionAt(lines, span.Start)
		endLine, endChar := positionAt(lines, span.End)
		if endLine <= startLine {
			continue
		}
		ranges = append(ranges, protocol.FoldingRange{
			StartLine:      uint32(startLine),
			StartCharacter: uint32(startChar),
			EndLine:        uint32(endLine),
			EndCharacter:   uint32(endChar),
			Kind:           foldingKind(span.Type),
		})
	}
	return ranges, nil
}

func foldingKind(t structure.BlockType) protocol.FoldingRangeKind {
	switch t {
	case structure.BlockTypeComment:
		return protocol.CommentFoldingRange
	case structure.BlockTypeImports:
		return protocol.ImportsFoldingRange
	default:
		return protocol.RegionFoldingRange
	}
}

// lineOffsets returns the byte offset of the start of every line.
func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func positionAt(offsets []int, offset int) (line, character int) {
	line = sort.Search(len(offsets), func(i int) bool { return offsets[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - offsets[line]
}

// Handler returns a jsonrpc2 handler dispatching the supported LSP methods.
func (s *LSPServer) Handler() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		switch req.Method {
		case "initialize":
			var params InitializeParams
			if req.Params != nil {
				if err := json.Unmarshal(*req.Params, &params); err != nil {
					return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
				}
			}
			return s.Initialize(params)
		case "initialized":
			return nil, nil
		case "shutdown":
			return nil, nil
		case "exit":
			return nil, nil
		case "textDocument/didOpen":
			var params protocol.DidOpenTextDocumentParams
			if err := json.Unmarshal(*req.Params, &params); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
			return nil, s.TextDocumentDidOpen(params.TextDocument.URI, string(params.TextDocument.LanguageID), int(params.TextDocument.Version), params.TextDocument.Text)
		case "textDocument/didChange":
			var params protocol.DidChangeTextDocumentParams
			if err := json.Unmarshal(*req.Params, &params); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
			if len(params.ContentChanges) == 0 {
				return nil, nil
			}
			text := params.ContentChanges[len(params.ContentChanges)-1].Text
			return nil, s.TextDocumentDidChange(params.TextDocument.URI, int(params.TextDocument.Version), text)
		case "textDocument/didClose":
			var params protocol.DidCloseTextDocumentParams
			if err := json.Unmarshal(*req.Params, &params); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
			return nil, s.TextDocumentDidClose(params.TextDocument.URI)
		case "textDocument/foldingRange":
			var params protocol.FoldingRangeParams
			if err := json.Unmarshal(*req.Params, &params); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
			return s.FoldingRange(ctx, params.TextDocument.URI)
		default:
			if req.Notif {
				return nil, nil
			}
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("method %s not handled", req.Method)}
		}
	})
}

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.reader.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.writer.Write(p) }

func (s *stdioReadWriteCloser) Close() error {
	rErr := s.reader.Close()
	wErr := s.writer.Close()
	if rErr != nil {
		return rErr
	}
	return wErr
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func (s *LSPServer) ServeStdio(ctx context.Context) error {
	rwc := &stdioReadWriteCloser{reader: os.Stdin, writer: os.Stdout}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, s.Handler())
	s.logger.Printf("folding range server listening on stdio")
	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}
