package registry

import "github.com/DoyleJ11/typerace-backend/internal/engine"

// Binding ties a connection to the room and participant it speaks for.
type Binding struct {
	RoomCode      string
	ParticipantID string
}

// Registry records which room and participant each live connection is bound to.
type Registry struct {
	bindings map[engine.ConnID]Binding
}

func New() *Registry {
	return &Registry{bindings: make(map[engine.ConnID]Binding)}
}

// Bind replaces any earlier binding for conn.
func (r *Registry) Bind(conn engine.ConnID, b Binding) {
	r.bindings[conn] = b
}

func (r *Registry) Lookup(conn engine.ConnID) (Binding, bool) {
	b, ok := r.bindings[conn]
	return b, ok
}

func (r *Registry) Unbind(conn engine.ConnID) {
	delete(r.bindings, conn)
}

func (r *Registry) Len() int { return len(r.bindings) }
