package replication

import "slices"

// List is a replicated ordered collection. Every change retransmits the whole
// list; there are no incremental diffs.
type List[T comparable] struct {
	scope scope
	field Field
	perm  Permission
	items []T
	subs  subscribers[func(prev, cur []T)]
}

func newList[T comparable](sc scope, field Field, perm Permission) *List[T] {
	return &List[T]{scope: sc, field: field, perm: perm}
}

// Get returns a copy of the items
func (l *List[T]) Get() []T {
	return slices.Clone(l.items)
}

// Len returns the number of items
func (l *List[T]) Len() int {
	return len(l.items)
}

// Set replaces the list on behalf of w
func (l *List[T]) Set(w Writer, items []T) error {
	if !l.scope.allows(l.perm, w) {
		return ErrWriteDenied
	}
	if slices.Equal(l.items, items) {
		return nil
	}

	prev := l.items
	l.items = slices.Clone(items)
	l.scope.bus.emit(l.scope.change(l.field, slices.Clone(items)))
	l.subs.each(func(h func(prev, cur []T)) {
		h(slices.Clone(prev), slices.Clone(l.items))
	})
	return nil
}

// Subscribe registers fn for change notifications
func (l *List[T]) Subscribe(fn func(prev, cur []T)) Token {
	tok := l.scope.bus.token()
	l.subs.add(tok, fn)
	return tok
}

// Unsubscribe removes a subscription
func (l *List[T]) Unsubscribe(tok Token) bool {
	return l.subs.remove(tok)
}
