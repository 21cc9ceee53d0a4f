package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/prodoc/internal/entity"
)

func TestHubFanOutAndUnsubscribe(t *testing.T) {
	hub := NewHub()
	var a, b []entity.SessionEventType

	subA := hub.Subscribe(func(ev entity.SessionEvent) { a = append(a, ev.Type) })
	hub.Subscribe(func(ev entity.SessionEvent) { b = append(b, ev.Type) })

	hub.Emit(entity.SessionEvent{Type: entity.SessionSignedIn})
	subA.Unsubscribe()
	subA.Unsubscribe()
	hub.Emit(entity.SessionEvent{Type: entity.SessionSignedOut})

	assert.Equal(t, []entity.SessionEventType{entity.SessionSignedIn}, a)
	assert.Equal(t, []entity.SessionEventType{entity.SessionSignedIn, entity.SessionSignedOut}, b)
}
