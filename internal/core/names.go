package core

// NameRegistry tracks display names claimed by connected sessions.
// Claims are advisory: a second session may connect with a name that is
// already taken. Each claim is counted, so the name stays taken until every
// session holding it has released it.
type NameRegistry struct {
	claimed map[string]int
}

// NewNameRegistry returns an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{claimed: make(map[string]int)}
}

// Available reports whether no session currently holds name.
func (n *NameRegistry) Available(name string) bool {
	return n.claimed[name] == 0
}

// Claim records one more session holding name.
func (n *NameRegistry) Claim(name string) {
	n.claimed[name]++
}

// Release drops one claim on name. Releasing an unclaimed name is a no-op.
func (n *NameRegistry) Release(name string) {
	switch count := n.claimed[name]; {
	case count <= 1:
		delete(n.claimed, name)
	default:
		n.claimed[name] = count - 1
	}
}

// Len returns the number of distinct claimed names.
func (n *NameRegistry) Len() int {
	return len(n.claimed)
}
