//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package domain

import "fmt"

//
// Names of the entry points memfault knows how to impersonate. They match the
// symbols the host system links against.
//
const (
	CudaMemcpy  = "cudaMemcpy"
	VeoReadMem  = "veo_read_mem"
	VeoWriteMem = "veo_write_mem"
)

// NoTrigger disables fault injection for an entry point.
const NoTrigger int64 = -1

// Status is the return code of an impersonated entry point.
type Status int32

const (
	StatusSuccess Status = 0
	StatusFault   Status = -1
)

type Outcome int

const (
	Success Outcome = iota
	Fault
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Fault:
		return "fault"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Status returns the return code the real entry point would hand back for
// this outcome.
func (o Outcome) Status() Status {
	if o == Fault {
		return StatusFault
	}
	return StatusSuccess
}

func OutcomeOf(s Status) Outcome {
	if s == StatusSuccess {
		return Success
	}
	return Fault
}

// EntryPointState reflects the position of an entry point's counter relative
// to its trigger index.
type EntryPointState int

const (
	Armed     EntryPointState = iota // count < trigger
	Fired                            // count == trigger, next call faults
	Exhausted                        // count > trigger, no more faults
	Disabled                         // trigger < 0
)

func (s EntryPointState) String() string {
	switch s {
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	case Exhausted:
		return "exhausted"
	case Disabled:
		return "disabled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

//
// EntryPoint interface. Represents one overridable function together with its
// invocation counter and error-trigger index.
//
type EntryPointIface interface {
	Name() string
	Trigger() int64
	SetTrigger(t int64)
	Count() int64
	State() EntryPointState

	// Invoke runs the compare-and-increment sequence for one call. The
	// returned count is the value observed before the decision was taken.
	Invoke() (Outcome, int64)

	Reset()
}

type InjectorServiceIface interface {
	RegisterEntryPoint(ep EntryPointIface) error
	UnregisterEntryPoint(name string) error
	LookupEntryPoint(name string) (EntryPointIface, bool)
	LookupPrefix(prefix string) []EntryPointIface
	EntryPoints() []EntryPointIface
	SetTrigger(name string, t int64) error
	Invoke(name string) (Outcome, int64, error)
	ResetAll()
}
