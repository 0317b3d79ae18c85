package replication

import "slices"

// Permission says who may write a field. The host may always write.
type Permission int

const (
	// PermissionHost fields are written by the host only
	PermissionHost Permission = iota

	// PermissionOwner fields are written by the owning client (or the host)
	PermissionOwner
)

// Writer identifies the origin of a write
type Writer struct {
	Host     bool
	ClientID uint64
}

// Host is the authoritative writer
var Host = Writer{Host: true}

// Client returns the writer for a connected client
func Client(id uint64) Writer {
	return Writer{ClientID: id}
}

type scope struct {
	bus      *Bus
	session  bool
	playerID uint64
}

func (s scope) change(field Field, value any) Change {
	return Change{Session: s.session, PlayerID: s.playerID, Field: field, Value: value}
}

func (s scope) allows(perm Permission, w Writer) bool {
	if w.Host {
		return true
	}
	return perm == PermissionOwner && !s.session && w.ClientID == s.playerID
}

// subscribers keeps handlers in subscription order keyed by stable tokens
type subscribers[H any] struct {
	order    []Token
	handlers map[Token]H
}

func (s *subscribers[H]) add(tok Token, h H) {
	if s.handlers == nil {
		s.handlers = make(map[Token]H)
	}
	s.handlers[tok] = h
	s.order = append(s.order, tok)
}

func (s *subscribers[H]) remove(tok Token) bool {
	if _, ok := s.handlers[tok]; !ok {
		return false
	}
	delete(s.handlers, tok)
	s.order = slices.DeleteFunc(s.order, func(t Token) bool { return t == tok })
	return true
}

// each calls fn for every handler subscribed when each started and still
// subscribed when its turn comes
func (s *subscribers[H]) each(fn func(H)) {
	for _, tok := range slices.Clone(s.order) {
		if h, ok := s.handlers[tok]; ok {
			fn(h)
		}
	}
}

func (s *subscribers[H]) clear() {
	s.order = nil
	s.handlers = nil
}

// Var is a replicated scalar. Every successful change is published to the
// bus and delivered to local subscribers with the previous and current value.
type Var[T comparable] struct {
	scope    scope
	field    Field
	perm     Permission
	value    T
	initial  T
	maxBytes int
	validate func(prev, next T) error
	subs     subscribers[func(prev, cur T)]
	disposed bool
}

type varOption[T comparable] func(*Var[T])

func withMaxBytes[T comparable](n int) varOption[T] {
	return func(v *Var[T]) { v.maxBytes = n }
}

func withValidator[T comparable](fn func(prev, next T) error) varOption[T] {
	return func(v *Var[T]) { v.validate = fn }
}

func newVar[T comparable](sc scope, field Field, perm Permission, initial T, opts ...varOption[T]) *Var[T] {
	v := &Var[T]{scope: sc, field: field, perm: perm, value: initial, initial: initial}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Field returns the field name
func (v *Var[T]) Field() Field {
	return v.field
}

// Get returns the current value
func (v *Var[T]) Get() T {
	return v.value
}

// Set writes value on behalf of w. Writing the current value is a no-op.
func (v *Var[T]) Set(w Writer, value T) error {
	if v.disposed {
		return ErrDisposed
	}
	if !v.scope.allows(v.perm, w) {
		return ErrWriteDenied
	}
	if v.maxBytes > 0 {
		if s, ok := any(value).(string); ok && len(s) > v.maxBytes {
			return ErrValueTooLarge
		}
	}
	if v.validate != nil {
		if err := v.validate(v.value, value); err != nil {
			return err
		}
	}
	if value == v.value {
		return nil
	}

	prev := v.value
	v.value = value
	v.scope.bus.emit(v.scope.change(v.field, value))
	v.subs.each(func(h func(prev, cur T)) {
		h(prev, value)
	})
	return nil
}

// Reset restores the initial value as the host
func (v *Var[T]) Reset() error {
	return v.Set(Host, v.initial)
}

// Subscribe registers fn for change notifications and returns the token to
// unsubscribe with
func (v *Var[T]) Subscribe(fn func(prev, cur T)) Token {
	tok := v.scope.bus.token()
	if !v.disposed {
		v.subs.add(tok, fn)
	}
	return tok
}

// Unsubscribe removes the subscription. It reports whether the token was
// subscribed; unknown or already removed tokens are ignored.
func (v *Var[T]) Unsubscribe(tok Token) bool {
	return v.subs.remove(tok)
}

// Subscribers returns the number of live subscriptions
func (v *Var[T]) Subscribers() int {
	return len(v.subs.order)
}

func (v *Var[T]) dispose() {
	v.disposed = true
	v.subs.clear()
}
