package sortkeys

import (
	"jsstyle/internal/jsast"
	"jsstyle/internal/lint"
)

const message = "Expected object keys to be in {{natural}}{{insensitive}}{{order}}ending order. " +
	"'{{thisName}}' should be before '{{prevName}}'."

// checker holds the state of one traversal.
type checker struct {
	ctx     *lint.Context
	opts    Options
	compare Comparator
	scope   Tracker
	fixes   map[*jsast.ObjectLiteral]*lint.Fix
}

func newChecker(ctx *lint.Context, opts Options) *checker {
	return &checker{
		ctx:     ctx,
		opts:    opts,
		compare: NewComparator(opts),
		fixes:   make(map[*jsast.ObjectLiteral]*lint.Fix),
	}
}

func (c *checker) handlers() jsast.Handlers {
	return jsast.Handlers{
		jsast.NodeObject:     func(jsast.Node) { c.scope.Enter() },
		jsast.NodeObjectExit: func(jsast.Node) { c.scope.Exit() },
		jsast.NodeProperty:   c.property,
	}
}

func (c *checker) property(n jsast.Node) {
	e := n.Entry
	thisName, thisOK := Resolve(e)

	// The first key after a spread is never out of order.
	prevEntry := e.Prev()
	shouldIgnoreOrder := prevEntry != nil && prevEntry.IsSpread()

	prevName, prevOK := c.scope.RecordAndGetPrevious(thisName, thisOK)
	if !prevOK || !thisOK {
		return
	}
	if shouldIgnoreOrder || c.compare(prevName, thisName) <= 0 {
		return
	}

	c.ctx.Report(lint.Descriptor{
		Span:    e.Key.Span,
		Pos:     e.Pos,
		Message: message,
		Data:    c.data(thisName, prevName),
		Fix:     c.fix(e.Object),
	})
}

func (c *checker) data(thisName, prevName Name) map[string]any {
	insensitive, natural := "", ""
	if !c.opts.CaseSensitive {
		insensitive = "insensitive "
	}
	if c.opts.Natural {
		natural = "natural "
	}
	return map[string]any{
		"order":       string(c.opts.Order),
		"insensitive": insensitive,
		"natural":     natural,
		"thisName":    thisName.String(),
		"prevName":    prevName.String(),
	}
}

// fix memoizes Synthesize per literal; every violation in a literal carries
// the same whole-list fix.
func (c *checker) fix(obj *jsast.ObjectLiteral) *lint.Fix {
	if f, ok := c.fixes[obj]; ok {
		return f
	}
	f := Synthesize(obj, c.ctx.Source(), c.compare)
	c.fixes[obj] = f
	return f
}
