//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package injector_test

import (
	"io/ioutil"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/nestybox/memfault/domain"
	"github.com/nestybox/memfault/injector"
)

func TestMain(m *testing.M) {

	// Disable log generation during UT.
	logrus.SetOutput(ioutil.Discard)

	m.Run()
}

type step struct {
	outcome domain.Outcome
	seen    int64
	after   int64
}

func TestEntryPoint_Invoke(t *testing.T) {

	tests := []struct {
		name    string
		trigger int64
		steps   []step
	}{
		{
			//
			// Test-case 1: trigger index 0. First call faults and leaves the
			// counter alone, second one succeeds.
			//
			name:    "1",
			trigger: 0,
			steps: []step{
				{domain.Fault, 0, 0},
				{domain.Success, 0, 1},
			},
		},
		{
			//
			// Test-case 2: trigger index 1. Only the second call faults.
			//
			name:    "2",
			trigger: 1,
			steps: []step{
				{domain.Success, 0, 1},
				{domain.Fault, 1, 1},
				{domain.Success, 1, 2},
			},
		},
		{
			//
			// Test-case 3: fault is a one-shot event; calls past the trigger
			// keep succeeding and counting.
			//
			name:    "3",
			trigger: 2,
			steps: []step{
				{domain.Success, 0, 1},
				{domain.Success, 1, 2},
				{domain.Fault, 2, 2},
				{domain.Success, 2, 3},
				{domain.Success, 3, 4},
				{domain.Success, 4, 5},
			},
		},
		{
			//
			// Test-case 4: disabled entry point never faults.
			//
			name:    "4",
			trigger: domain.NoTrigger,
			steps: []step{
				{domain.Success, 0, 1},
				{domain.Success, 1, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := injector.NewEntryPoint(domain.CudaMemcpy, tt.trigger)

			for i, s := range tt.steps {
				outcome, seen := ep.Invoke()
				assert.Equal(t, s.outcome, outcome, "call %d outcome", i)
				assert.Equal(t, s.seen, seen, "call %d observed count", i)
				assert.Equal(t, s.after, ep.Count(), "call %d resulting count", i)
			}
		})
	}
}

// Every call index faults if and only if it equals the trigger index.
func TestEntryPoint_FaultsOnlyAtTrigger(t *testing.T) {

	const calls = 12

	for trigger := int64(0); trigger < calls; trigger++ {
		ep := injector.NewEntryPoint(domain.VeoReadMem, trigger)

		faults := 0
		for i := int64(0); i <= calls; i++ {
			outcome, seen := ep.Invoke()
			if outcome == domain.Fault {
				faults++
				assert.Equal(t, trigger, seen)
			}
		}

		assert.Equal(t, 1, faults, "trigger %d", trigger)

		// One call out of calls+1 faulted; the counter only saw the others.
		assert.Equal(t, int64(calls), ep.Count(), "trigger %d", trigger)
	}
}

func TestEntryPoint_TriggerBeyondCalls(t *testing.T) {

	ep := injector.NewEntryPoint(domain.VeoWriteMem, 10)

	for i := 0; i < 10; i++ {
		outcome, _ := ep.Invoke()
		assert.Equal(t, domain.Success, outcome)
	}

	assert.Equal(t, int64(10), ep.Count())
	assert.Equal(t, domain.Fired, ep.State())
}

func TestEntryPoint_State(t *testing.T) {

	ep := injector.NewEntryPoint(domain.CudaMemcpy, 1)
	assert.Equal(t, domain.Armed, ep.State())

	ep.Invoke()
	assert.Equal(t, domain.Fired, ep.State())

	// Once the fault is delivered no further faults are produced, even
	// though the counter still equals the trigger index.
	outcome, _ := ep.Invoke()
	assert.Equal(t, domain.Fault, outcome)
	assert.Equal(t, int64(1), ep.Count())
	assert.Equal(t, domain.Exhausted, ep.State())

	ep.Invoke()
	assert.Equal(t, int64(2), ep.Count())
	assert.Equal(t, domain.Exhausted, ep.State())

	// New trigger re-arms.
	ep.SetTrigger(4)
	assert.Equal(t, domain.Armed, ep.State())

	ep.Reset()
	assert.Equal(t, int64(0), ep.Count())
	assert.Equal(t, domain.Armed, ep.State())

	ep.SetTrigger(domain.NoTrigger)
	assert.Equal(t, domain.Disabled, ep.State())
}

func TestEntryPoint_ConcurrentCallers(t *testing.T) {

	const (
		workers = 16
		calls   = 50
		trigger = 137
	)

	ep := injector.NewEntryPoint(domain.CudaMemcpy, trigger)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		faults []int64
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				if outcome, seen := ep.Invoke(); outcome == domain.Fault {
					mu.Lock()
					faults = append(faults, seen)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []int64{trigger}, faults)
	assert.Equal(t, int64(workers*calls-1), ep.Count())
}
