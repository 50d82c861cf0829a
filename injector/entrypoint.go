//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package injector

import (
	"fmt"
	"sync"

	"github.com/nestybox/memfault/domain"
)

// Ensure entryPoint implements EntryPointIface.
var _ domain.EntryPointIface = (*entryPoint)(nil)

//
// entryPoint holds the invocation counter and error-trigger index of one
// intercepted function. Counter and trigger are guarded by the same lock so
// that the compare-and-increment sequence is atomic for concurrent callers.
//
type entryPoint struct {
	sync.Mutex
	name    string
	trigger int64

	// Successful calls so far.
	count int64

	// Set once the fault at 'trigger' has been delivered.
	fired bool
}

func NewEntryPoint(name string, trigger int64) domain.EntryPointIface {
	return &entryPoint{
		name:    name,
		trigger: trigger,
	}
}

func (e *entryPoint) Name() string {
	return e.name
}

func (e *entryPoint) Trigger() int64 {
	e.Lock()
	defer e.Unlock()

	return e.trigger
}

// SetTrigger re-arms the entry point with a new trigger index.
func (e *entryPoint) SetTrigger(t int64) {
	e.Lock()
	e.trigger = t
	e.fired = false
	e.Unlock()
}

func (e *entryPoint) Count() int64 {
	e.Lock()
	defer e.Unlock()

	return e.count
}

func (e *entryPoint) State() domain.EntryPointState {
	e.Lock()
	defer e.Unlock()

	return e.state()
}

func (e *entryPoint) state() domain.EntryPointState {
	switch {
	case e.trigger < 0:
		return domain.Disabled
	case e.count < e.trigger:
		return domain.Armed
	case e.count == e.trigger && !e.fired:
		return domain.Fired
	}
	return domain.Exhausted
}

func (e *entryPoint) Invoke() (domain.Outcome, int64) {
	return e.invokeObserved(nil)
}

// invokeObserved runs Invoke and reports the outcome and the post-call
// counter to 'observe' before the lock is released, so observers see calls in
// counter order.
func (e *entryPoint) invokeObserved(
	observe func(domain.Outcome, int64)) (domain.Outcome, int64) {

	e.Lock()
	defer e.Unlock()

	seen := e.count
	outcome := domain.Success

	// The fault is a one-shot event: the counter is left untouched, and the
	// next call moves past the trigger and succeeds.
	if e.count == e.trigger && !e.fired {
		e.fired = true
		outcome = domain.Fault
	} else {
		e.count++
	}

	if observe != nil {
		observe(outcome, e.count)
	}

	return outcome, seen
}

func (e *entryPoint) Reset() {
	e.Lock()
	e.count = 0
	e.fired = false
	e.Unlock()
}

func (e *entryPoint) String() string {
	e.Lock()
	defer e.Unlock()

	return fmt.Sprintf("%s: trigger = %d, count = %d, state = %s",
		e.name, e.trigger, e.count, e.state())
}
