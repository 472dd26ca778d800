package sortkeys

import (
	"slices"
	"strings"

	"jsstyle/internal/jsast"
	"jsstyle/internal/lint"
)

// entrySeparator joins re-emitted entries. Continuation entries lose their
// original indentation.
const entrySeparator = ",\n"

type sortable struct {
	name Name
	text string
}

// run is a maximal sequence of keyed entries, or a single spread.
type run struct {
	spread  bool
	entries []sortable
}

// Synthesize returns a fix that sorts obj's entries within each run between
// spreads, or nil when the literal cannot be reordered safely: an entry has
// an adjacent comment, or a keyed entry has no comparable name.
func Synthesize(obj *jsast.ObjectLiteral, src []byte, compare Comparator) *lint.Fix {
	if len(obj.Entries) == 0 {
		return nil
	}

	var runs []run
	for _, e := range obj.Entries {
		if e.HasAdjacentComment() {
			return nil
		}
		item := sortable{text: e.Text(src)}

		if e.IsSpread() {
			runs = append(runs, run{spread: true, entries: []sortable{item}})
			continue
		}
		name, ok := Resolve(e)
		if !ok {
			return nil
		}
		item.name = name
		if n := len(runs); n == 0 || runs[n-1].spread {
			runs = append(runs, run{})
		}
		runs[len(runs)-1].entries = append(runs[len(runs)-1].entries, item)
	}

	texts := make([]string, 0, len(obj.Entries))
	for _, r := range runs {
		if !r.spread {
			slices.SortStableFunc(r.entries, func(a, b sortable) int {
				return compare(a.name, b.name)
			})
		}
		for _, item := range r.entries {
			texts = append(texts, item.text)
		}
	}

	first, last := obj.Entries[0], obj.Entries[len(obj.Entries)-1]
	return &lint.Fix{
		Span: jsast.Span{Start: first.Span.Start, End: last.Span.End},
		Text: strings.Join(texts, entrySeparator),
	}
}
