//go:build cgo

package jsast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"jsstyle/internal/errors"
)

// Parser wraps a tree-sitter parser. It is not safe for concurrent use; give
// each worker its own.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// Parse parses src and builds the object literal model. The language is
// chosen from path's extension. Syntax errors do not fail the parse; the
// tree-sitter recovery tree is used and File.HasErrors is set.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*File, error) {
	lang, ok := LanguageFromPath(path)
	if !ok {
		return nil, errors.New(errors.UnsupportedLanguage, fmt.Sprintf("no grammar for %s", path), nil)
	}

	p.parser.SetLanguage(getLanguage(lang))
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.New(errors.ParseFailed, fmt.Sprintf("cannot parse %s", path), err)
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &File{
		Path:      path,
		Language:  lang,
		Source:    src,
		HasErrors: root.HasError(),
	}
	b := builder{file: f, src: src}
	b.visit(root, nil)
	return f, nil
}

// IsAvailable reports whether tree-sitter parsing is compiled in.
func IsAvailable() bool {
	return true
}

func getLanguage(lang Language) *sitter.Language {
	switch lang {
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

type builder struct {
	file *File
	src  []byte
}

// visit searches n for object literals. Literals found below owner are
// recorded on owner; with a nil owner they are outermost.
func (b *builder) visit(n *sitter.Node, owner *Entry) {
	if n.Type() == "object" {
		obj := b.object(n, owner)
		if owner == nil {
			b.file.Objects = append(b.file.Objects, obj)
		} else {
			owner.Objects = append(owner.Objects, obj)
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.visit(n.NamedChild(i), owner)
	}
}

func (b *builder) object(n *sitter.Node, owner *Entry) *ObjectLiteral {
	obj := &ObjectLiteral{
		Span:   span(n),
		Pos:    b.position(n),
		Parent: owner,
	}

	// A comment between two entries is trailing for the one before and
	// leading for the one after, whichever side of the comma it sits on.
	var (
		pending []Comment
		nodes   []*sitter.Node
	)
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "comment" {
			cm := Comment{Span: span(c), Text: c.Content(b.src)}
			cm.Block = len(cm.Text) > 1 && cm.Text[1] == '*'
			if k := len(obj.Entries); k > 0 {
				obj.Entries[k-1].TrailingComments = append(obj.Entries[k-1].TrailingComments, cm)
			}
			pending = append(pending, cm)
			continue
		}

		e := b.entry(c)
		if e == nil {
			continue
		}
		e.Object = obj
		e.Index = len(obj.Entries)
		e.LeadingComments = pending
		pending = nil
		obj.Entries = append(obj.Entries, e)
		nodes = append(nodes, c)
	}

	for i, e := range obj.Entries {
		b.descend(nodes[i], e)
	}
	return obj
}

// entry converts one child of an object node, or returns nil for
// punctuation and error nodes.
func (b *builder) entry(n *sitter.Node) *Entry {
	e := &Entry{
		Span:   span(n),
		Pos:    b.position(n),
		Column: int(n.StartPoint().Column),
	}

	switch n.Type() {
	case "pair":
		e.Kind = EntryProperty
		e.Key = b.key(n.ChildByFieldName("key"))
	case "method_definition":
		e.Kind = EntryMethod
		e.Key = b.key(n.ChildByFieldName("name"))
	case "shorthand_property_identifier":
		e.Kind = EntryShorthand
		e.Key = b.key(n)
	case "spread_element":
		e.Kind = EntrySpread
		if arg := n.NamedChild(0); arg != nil {
			e.Argument = arg.Content(b.src)
		}
		return e
	default:
		return nil
	}

	if e.Key.Kind != KeyNone {
		e.Pos = e.Key.Pos
	}
	return e
}

func (b *builder) key(n *sitter.Node) Key {
	if n == nil {
		return Key{}
	}
	k := Key{
		Text: n.Content(b.src),
		Span: span(n),
		Pos:  b.position(n),
	}

	inner := n
	if n.Type() == "computed_property_name" {
		k.Computed = true
		inner = n.NamedChild(0)
		if inner == nil {
			k.Kind = KeyExpression
			return k
		}
		k.Text = inner.Content(b.src)
	}

	switch inner.Type() {
	case "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "identifier":
		k.Kind = KeyIdentifier
	case "string":
		k.Kind = KeyString
		k.Value = UnquoteString(k.Text)
	case "number":
		if v, ok := ParseNumber(k.Text); ok {
			k.Kind = KeyNumber
			k.Number = v
		} else {
			k.Kind = KeyExpression
		}
	case "template_string":
		k.Kind = KeyTemplate
	default:
		k.Kind = KeyExpression
	}
	return k
}

// descend finds literals nested inside an entry: in its value, in a computed
// key, in a method body or in a spread argument.
func (b *builder) descend(n *sitter.Node, e *Entry) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.visit(n.NamedChild(i), e)
	}
}

func span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

// position converts tree-sitter's byte column into UTF-16 code units.
func (b *builder) position(n *sitter.Node) Position {
	p, start := n.StartPoint(), int(n.StartByte())
	lineStart := start - int(p.Column)
	return Position{Line: int(p.Row) + 1, Column: utf16Len(b.src[lineStart:start]) + 1}
}
