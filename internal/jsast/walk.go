package jsast

// NodeKind names the traversal events rules can subscribe to.
type NodeKind string

const (
	NodeObject     NodeKind = "object"
	NodeObjectExit NodeKind = "object:exit"
	NodeProperty   NodeKind = "property"
	NodeSpread     NodeKind = "spread"
)

// Node is the payload passed to a Handler. Object is always set; Entry is set
// for NodeProperty and NodeSpread.
type Node struct {
	Kind   NodeKind
	Object *ObjectLiteral
	Entry  *Entry
}

// Handler is a traversal callback.
type Handler func(Node)

// Handlers maps node kinds to callbacks. A rule registers its map once per
// file; kinds it does not care about are simply absent.
type Handlers map[NodeKind]Handler

// Walk visits every object literal of f depth-first in source order. Each
// literal produces NodeObject, then one NodeProperty or NodeSpread per entry
// (followed by the literals nested in that entry), then NodeObjectExit.
// Handler sets are dispatched in the order given.
func Walk(f *File, sets ...Handlers) {
	w := walker{sets: sets}
	for _, obj := range f.Objects {
		w.object(obj)
	}
}

type walker struct {
	sets []Handlers
}

func (w walker) emit(n Node) {
	for _, hs := range w.sets {
		if h, ok := hs[n.Kind]; ok {
			h(n)
		}
	}
}

func (w walker) object(obj *ObjectLiteral) {
	w.emit(Node{Kind: NodeObject, Object: obj})
	for _, e := range obj.Entries {
		kind := NodeProperty
		if e.IsSpread() {
			kind = NodeSpread
		}
		w.emit(Node{Kind: kind, Object: obj, Entry: e})
		for _, nested := range e.Objects {
			w.object(nested)
		}
	}
	w.emit(Node{Kind: NodeObjectExit, Object: obj})
}
