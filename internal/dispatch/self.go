package dispatch

// Self is the handle a self-referencing implementation closes over. It is
// created unbound while the owning table is still being built; calling
// through it in that window is an error. Binding happens exactly once, when
// the owning typed function materializes, and must complete before the
// function is shared.
type Self struct {
	name  string
	table *Table
}

func NewSelf(name string) *Self {
	return &Self{name: name}
}

// Bind fixes the handle to the finished table. Later binds are ignored; the
// first table wins.
func (s *Self) Bind(t *Table) {
	if s.table == nil {
		s.table = t
	}
}

// Bound reports whether construction has completed.
func (s *Self) Bound() bool {
	return s.table != nil
}

// Call dispatches through the bound table, exactly like calling the typed
// function itself.
func (s *Self) Call(args ...any) (any, error) {
	if s.table == nil {
		return nil, NewSelfReferenceError(s.name)
	}
	return s.table.Invoke(args...)
}

// Resolve exposes resolution through the handle, for implementations that
// pick an implementation once and reuse it.
func (s *Self) Resolve(args []any) (*Resolution, error) {
	if s.table == nil {
		return nil, NewSelfReferenceError(s.name)
	}
	return s.table.Resolve(args)
}
