package sortkeys

import "jsstyle/internal/errors"

// ErrScopeUnderflow is the panic value of Exit on an empty Tracker. It means
// the traversal did not pair object enter and exit events.
var ErrScopeUnderflow = errors.New(errors.InternalError, "scope stack underflow: object exit without enter", nil)

type frame struct {
	prev    Name
	hasPrev bool
}

// Tracker keeps the previous comparable name of every open object literal.
// One Tracker belongs to one traversal of one file.
type Tracker struct {
	frames []frame
}

// Enter opens a frame for a new object literal.
func (t *Tracker) Enter() {
	t.frames = append(t.frames, frame{})
}

// Exit discards the innermost frame. It panics with ErrScopeUnderflow when
// no frame is open.
func (t *Tracker) Exit() {
	if len(t.frames) == 0 {
		panic(ErrScopeUnderflow)
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Depth returns the number of open frames.
func (t *Tracker) Depth() int {
	return len(t.frames)
}

// RecordAndGetPrevious returns the innermost frame's previous name and then,
// if ok, makes name the new previous name. An entry without a comparable
// name leaves the baseline untouched.
func (t *Tracker) RecordAndGetPrevious(name Name, ok bool) (Name, bool) {
	if len(t.frames) == 0 {
		panic(ErrScopeUnderflow)
	}
	top := &t.frames[len(t.frames)-1]
	prev, hadPrev := top.prev, top.hasPrev
	if ok {
		top.prev, top.hasPrev = name, true
	}
	return prev, hadPrev
}
