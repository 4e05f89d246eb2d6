// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package events

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/gammazero/workerpool"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/receiver/types"
)

type Handler func(ev types.Event)

type subscription struct {
	handler Handler
	filter  map[types.EventType]struct{}
}

func (s *subscription) wants(t types.EventType) bool {
	if len(s.filter) == 0 {
		return true
	}
	_, ok := s.filter[t]
	return ok
}

// Dispatcher delivers session events to subscribers off the admission path.
// A single worker keeps events in the order they were dispatched.
type Dispatcher struct {
	logger logger.Logger
	pool   *workerpool.WorkerPool

	lock          sync.RWMutex
	subscriptions *orderedmap.OrderedMap[string, *subscription]
	isStopped     bool
}

func NewDispatcher(logger logger.Logger) *Dispatcher {
	return &Dispatcher{
		logger:        logger,
		pool:          workerpool.New(1),
		subscriptions: orderedmap.NewOrderedMap[string, *subscription](),
	}
}

// Subscribe registers a handler under name, replacing any handler already using it.
// With no event types given, the handler receives every event.
func (d *Dispatcher) Subscribe(name string, handler Handler, eventTypes ...types.EventType) {
	sub := &subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.filter = make(map[types.EventType]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.filter[t] = struct{}{}
		}
	}

	d.lock.Lock()
	d.subscriptions.Set(name, sub)
	d.lock.Unlock()
}

func (d *Dispatcher) Unsubscribe(name string) {
	d.lock.Lock()
	d.subscriptions.Delete(name)
	d.lock.Unlock()
}

func (d *Dispatcher) NumSubscribers() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.subscriptions.Len()
}

func (d *Dispatcher) Dispatch(ev types.Event) {
	d.lock.RLock()
	if d.isStopped {
		d.lock.RUnlock()
		return
	}

	var handlers []Handler
	for el := d.subscriptions.Front(); el != nil; el = el.Next() {
		if el.Value.wants(ev.Type()) {
			handlers = append(handlers, el.Value.handler)
		}
	}
	d.lock.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debugw("no subscriber for event", "event", ev.Type())
		return
	}

	d.pool.Submit(func() {
		for _, h := range handlers {
			h(ev)
		}
	})
}

// Stop waits for already dispatched events to be delivered.
func (d *Dispatcher) Stop() {
	d.lock.Lock()
	if d.isStopped {
		d.lock.Unlock()
		return
	}
	d.isStopped = true
	d.lock.Unlock()

	d.pool.StopWait()
}
