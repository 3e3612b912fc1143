package eventemitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"minefield.dev/launcher/pkg/eventemitter"
)

func TestEmitWithoutSubscribers(t *testing.T) {
	emitter := eventemitter.EventEmitter[int]{}
	assert.NoError(t, emitter.Emit(1))
	emitter.Close()
}

func TestEmitPreservesOrder(t *testing.T) {
	emitter := eventemitter.EventEmitter[string]{}
	var first, second []string
	emitter.Subscribe(func(message string) { first = append(first, message) })
	emitter.Subscribe(func(message string) { second = append(second, message) })

	for _, message := range []string{"a", "b", "c"} {
		assert.NoError(t, emitter.Emit(message))
	}
	emitter.Close()

	assert.Equal(t, []string{"a", "b", "c"}, first)
	assert.Equal(t, []string{"a", "b", "c"}, second)
}

func TestEmitAfterClose(t *testing.T) {
	emitter := eventemitter.EventEmitter[bool]{}
	emitter.Subscribe(func(bool) {})
	emitter.Close()
	emitter.Close()

	assert.ErrorIs(t, emitter.Emit(true), eventemitter.ErrClosed)
}

func TestSubscribeNilCallback(t *testing.T) {
	emitter := eventemitter.EventEmitter[bool]{}
	assert.Panics(t, func() { emitter.Subscribe(nil) })
}
