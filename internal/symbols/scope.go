package symbols

// Scope models one lexical region: an ordered set of locals. Scopes live in a
// ScopeStack that is pushed on block entry and popped on block exit, both
// during analysis and during the code generator's frame pre-pass.
type Scope struct {
	names map[string]*Local
	order []string
}

func newScope() *Scope {
	return &Scope{names: make(map[string]*Local, 4)}
}

// Locals returns the scope's locals in definition order.
func (s *Scope) Locals() []*Local {
	out := make([]*Local, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.names[name])
	}
	return out
}

// ScopeStack is a stack of per-scope tables with lexical shadowing.
type ScopeStack struct {
	scopes []*Scope
}

// NewScopeStack builds an empty stack; callers push the function's outermost
// scope before defining parameters.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

// Push enters a new innermost scope.
func (ss *ScopeStack) Push() {
	ss.scopes = append(ss.scopes, newScope())
}

// Pop leaves the innermost scope, discarding its symbols.
func (ss *ScopeStack) Pop() {
	if len(ss.scopes) == 0 {
		panic("scope stack underflow")
	}
	ss.scopes = ss.scopes[:len(ss.scopes)-1]
}

// Depth returns the number of active scopes.
func (ss *ScopeStack) Depth() int {
	return len(ss.scopes)
}

// Define adds a local to the innermost scope. Returns false when the name is
// already defined in that same scope (shadowing an outer scope is fine).
func (ss *ScopeStack) Define(l *Local) bool {
	if len(ss.scopes) == 0 {
		panic("define with no active scope")
	}
	top := ss.scopes[len(ss.scopes)-1]
	if _, dup := top.names[l.Name]; dup {
		return false
	}
	top.names[l.Name] = l
	top.order = append(top.order, l.Name)
	return true
}

// Lookup resolves a name against the stack, innermost scope first.
func (ss *ScopeStack) Lookup(name string) (*Local, bool) {
	for i := len(ss.scopes) - 1; i >= 0; i-- {
		if l, ok := ss.scopes[i].names[name]; ok {
			return l, true
		}
	}
	return nil, false
}
