package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_BindLookupUnbind(t *testing.T) {
	r := New()

	_, ok := r.Lookup("c1")
	assert.False(t, ok)

	r.Bind("c1", Binding{RoomCode: "ROOM1", ParticipantID: "p1"})
	r.Bind("c1", Binding{RoomCode: "ROOM2", ParticipantID: "p9"})

	b, ok := r.Lookup("c1")
	assert.True(t, ok)
	assert.Equal(t, Binding{RoomCode: "ROOM2", ParticipantID: "p9"}, b)
	assert.Equal(t, 1, r.Len())

	r.Unbind("c1")
	r.Unbind("c1")
	_, ok = r.Lookup("c1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}
