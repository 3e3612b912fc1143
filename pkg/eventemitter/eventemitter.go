// Package eventemitter delivers typed events to subscribers. Each subscriber
// owns a queue and a goroutine, so a slow callback never reorders the events
// seen by another subscriber nor blocks the emitter beyond its queue size.
package eventemitter

import (
	"errors"
	"sync"
)

const queueSize = 16

var ErrClosed = errors.New("event emitter closed")

type EventEmitter[T any] struct {
	mutex       sync.Mutex
	subscribers []*Subscriber[T]
	closed      bool
}

func (eventEmitter *EventEmitter[T]) Emit(message T) error {
	eventEmitter.mutex.Lock()
	defer eventEmitter.mutex.Unlock()
	if eventEmitter.closed {
		return ErrClosed
	}
	for _, subscriber := range eventEmitter.subscribers {
		subscriber.inputQueue <- message
	}
	return nil
}

func (eventEmitter *EventEmitter[T]) Subscribe(callback func(T)) {
	if callback == nil {
		panic("Callback is nil")
	}
	eventEmitter.mutex.Lock()
	defer eventEmitter.mutex.Unlock()
	if eventEmitter.closed {
		return
	}
	eventEmitter.subscribers = append(eventEmitter.subscribers, newSubscriber(callback))
}

// Close stops accepting events and waits until every queued event is delivered.
func (eventEmitter *EventEmitter[T]) Close() {
	eventEmitter.mutex.Lock()
	if eventEmitter.closed {
		eventEmitter.mutex.Unlock()
		return
	}
	eventEmitter.closed = true
	subscribers := eventEmitter.subscribers
	eventEmitter.mutex.Unlock()

	for _, subscriber := range subscribers {
		close(subscriber.inputQueue)
		<-subscriber.done
	}
}

type Subscriber[T any] struct {
	inputQueue chan T
	done       chan struct{}
}

func newSubscriber[T any](callback func(T)) *Subscriber[T] {
	instance := &Subscriber[T]{
		inputQueue: make(chan T, queueSize),
		done:       make(chan struct{}),
	}
	go func() {
		defer close(instance.done)
		for message := range instance.inputQueue {
			callback(message)
		}
	}()
	return instance
}
