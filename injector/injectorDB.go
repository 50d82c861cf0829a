//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package injector

import (
	"sync"

	"github.com/cockroachdb/errors"
	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/sirupsen/logrus"

	"github.com/nestybox/memfault/domain"
	"github.com/nestybox/memfault/metrics"
)

//
// Trigger indices of the entry points intercepted by default. Please keep me
// alphabetically ordered within each runtime bucket.
//
var DefaultTriggers = map[string]int64{
	//
	// CUDA runtime
	//
	domain.CudaMemcpy: 0,
	//
	// VE offload runtime
	//
	domain.VeoReadMem:  1,
	domain.VeoWriteMem: 0,
}

// DefaultEntryPoints returns a fresh set of entry points configured with
// DefaultTriggers. Each call hands out new counters.
func DefaultEntryPoints() []domain.EntryPointIface {
	return []domain.EntryPointIface{
		NewEntryPoint(domain.CudaMemcpy, DefaultTriggers[domain.CudaMemcpy]),
		NewEntryPoint(domain.VeoReadMem, DefaultTriggers[domain.VeoReadMem]),
		NewEntryPoint(domain.VeoWriteMem, DefaultTriggers[domain.VeoWriteMem]),
	}
}

type injectorService struct {
	sync.RWMutex

	// Entry points indexed by name. Radix-tree allows prefix lookups (e.g.
	// "veo_" for every VE memory primitive).
	epDB *iradix.Tree

	metrics *metrics.Metrics
}

func NewInjectorService(
	eps []domain.EntryPointIface,
	m *metrics.Metrics) domain.InjectorServiceIface {

	newis := &injectorService{
		epDB:    iradix.New(),
		metrics: m,
	}

	for _, ep := range eps {
		if err := newis.RegisterEntryPoint(ep); err != nil {
			logrus.Warnf("Skipping entry point %v: %v", ep.Name(), err)
		}
	}

	return newis
}

func (is *injectorService) RegisterEntryPoint(ep domain.EntryPointIface) error {
	is.Lock()

	name := ep.Name()

	if _, ok := is.epDB.Get([]byte(name)); ok {
		is.Unlock()
		logrus.Errorf("Entry point %v already registered", name)
		return errors.Newf("entry point %q already registered", name)
	}

	is.epDB, _, _ = is.epDB.Insert([]byte(name), ep)
	is.Unlock()

	logrus.Debugf("Registered entry point %v (trigger = %d)", name, ep.Trigger())

	return nil
}

func (is *injectorService) UnregisterEntryPoint(name string) error {
	is.Lock()

	newDB, _, ok := is.epDB.Delete([]byte(name))
	if !ok {
		is.Unlock()
		logrus.Errorf("Entry point %v not previously registered", name)
		return errors.Newf("entry point %q not registered", name)
	}

	is.epDB = newDB
	is.Unlock()

	logrus.Debugf("Unregistered entry point %v", name)

	return nil
}

func (is *injectorService) LookupEntryPoint(name string) (domain.EntryPointIface, bool) {
	is.RLock()
	defer is.RUnlock()

	v, ok := is.epDB.Get([]byte(name))
	if !ok {
		return nil, false
	}

	return v.(domain.EntryPointIface), true
}

func (is *injectorService) LookupPrefix(prefix string) []domain.EntryPointIface {
	is.RLock()
	root := is.epDB.Root()
	is.RUnlock()

	var eps []domain.EntryPointIface

	root.WalkPrefix([]byte(prefix), func(k []byte, v interface{}) bool {
		eps = append(eps, v.(domain.EntryPointIface))
		return false
	})

	return eps
}

func (is *injectorService) EntryPoints() []domain.EntryPointIface {
	return is.LookupPrefix("")
}

func (is *injectorService) SetTrigger(name string, t int64) error {

	ep, ok := is.LookupEntryPoint(name)
	if !ok {
		return errors.Newf("entry point %q not registered", name)
	}

	ep.SetTrigger(t)

	logrus.Infof("Entry point %v: trigger index set to %d", name, t)

	return nil
}

type observedInvoker interface {
	invokeObserved(observe func(domain.Outcome, int64)) (domain.Outcome, int64)
}

func (is *injectorService) Invoke(name string) (domain.Outcome, int64, error) {

	ep, ok := is.LookupEntryPoint(name)
	if !ok {
		return domain.Success, 0, errors.Newf("entry point %q not registered", name)
	}

	observe := func(outcome domain.Outcome, count int64) {
		is.metrics.Observe(name, outcome, count)
	}

	// Entry points built by this package publish under their own lock.
	if oep, ok := ep.(observedInvoker); ok {
		outcome, seen := oep.invokeObserved(observe)
		return outcome, seen, nil
	}

	outcome, seen := ep.Invoke()
	observe(outcome, ep.Count())

	return outcome, seen, nil
}

func (is *injectorService) ResetAll() {

	for _, ep := range is.EntryPoints() {
		ep.Reset()
		is.metrics.Forget(ep.Name())
	}

	logrus.Info("All entry point counters reset")
}
