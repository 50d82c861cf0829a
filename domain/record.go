//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package domain

import (
	"fmt"
	"strings"
)

type CallArg struct {
	Name  string
	Value string
}

// CallRecord describes a single intercepted invocation: the entry point hit,
// the arguments it received, the counter value seen and the outcome handed
// back to the caller.
type CallRecord struct {
	EntryPoint string
	Args       []CallArg
	Count      int64
	Outcome    Outcome
}

// Call renders the invocation as "name(arg, arg, ...)".
func (r CallRecord) Call() string {
	vals := make([]string, 0, len(r.Args))
	for _, a := range r.Args {
		vals = append(vals, a.Value)
	}

	return fmt.Sprintf("%s(%s)", r.EntryPoint, strings.Join(vals, ", "))
}

func (r CallRecord) String() string {
	return fmt.Sprintf("%s = %d (%s, count %d)",
		r.Call(), r.Outcome.Status(), r.Outcome, r.Count)
}

type JournalServiceIface interface {
	Append(r CallRecord)
	Records(entryPoint string) []CallRecord
	All() []CallRecord
	Len() int
	Reset()
}
