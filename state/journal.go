//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package state

import (
	"sync"

	"github.com/nestybox/memfault/domain"
)

type journalService struct {
	sync.RWMutex

	// Every record, in arrival order.
	records []domain.CallRecord

	// Positions within 'records' of the calls made to each entry point.
	byEntryPoint map[string][]int
}

func NewJournalService() domain.JournalServiceIface {
	return &journalService{
		byEntryPoint: make(map[string][]int),
	}
}

func (js *journalService) Append(r domain.CallRecord) {
	js.Lock()
	defer js.Unlock()

	js.byEntryPoint[r.EntryPoint] = append(js.byEntryPoint[r.EntryPoint], len(js.records))
	js.records = append(js.records, r)
}

func (js *journalService) Records(entryPoint string) []domain.CallRecord {
	js.RLock()
	defer js.RUnlock()

	idx := js.byEntryPoint[entryPoint]
	if len(idx) == 0 {
		return nil
	}

	recs := make([]domain.CallRecord, 0, len(idx))
	for _, i := range idx {
		recs = append(recs, js.records[i])
	}

	return recs
}

func (js *journalService) All() []domain.CallRecord {
	js.RLock()
	defer js.RUnlock()

	recs := make([]domain.CallRecord, len(js.records))
	copy(recs, js.records)

	return recs
}

func (js *journalService) Len() int {
	js.RLock()
	defer js.RUnlock()

	return len(js.records)
}

func (js *journalService) Reset() {
	js.Lock()
	js.records = nil
	js.byEntryPoint = make(map[string][]int)
	js.Unlock()
}
