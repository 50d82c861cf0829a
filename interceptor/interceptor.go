//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package interceptor

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nestybox/memfault/domain"
)

//
// interceptor carries the state shared by all entry-point impersonators: the
// injector deciding each call's outcome, the journal where calls get recorded
// and the log sink.
//
type interceptor struct {
	ijs domain.InjectorServiceIface
	jrs domain.JournalServiceIface
	log *logrus.Logger
}

func newInterceptor(
	ijs domain.InjectorServiceIface,
	jrs domain.JournalServiceIface,
	log *logrus.Logger) interceptor {

	if log == nil {
		log = logrus.StandardLogger()
	}

	return interceptor{ijs: ijs, jrs: jrs, log: log}
}

func hexArg(name string, v uint64) domain.CallArg {
	return domain.CallArg{Name: name, Value: fmt.Sprintf("%#x", v)}
}

func decArg(name string, v interface{}) domain.CallArg {
	return domain.CallArg{Name: name, Value: fmt.Sprintf("%d", v)}
}

// intercept logs the call, asks the injector for its outcome and records it.
// No validation of the arguments takes place.
func (i *interceptor) intercept(name string, args ...domain.CallArg) domain.Status {

	rec := domain.CallRecord{
		EntryPoint: name,
		Args:       args,
	}

	i.log.Info(rec.Call())

	outcome, seen, err := i.ijs.Invoke(name)
	if err != nil {
		i.log.Warnf("%s: %v; letting call through", name, err)
	}

	rec.Outcome = outcome
	rec.Count = seen

	i.log.Infof("%s call count = %d", name, seen)

	if outcome == domain.Fault {
		i.log.Warnf("%s: injecting fault at call %d", name, seen)
	}

	if i.jrs != nil {
		i.jrs.Append(rec)
	}

	return outcome.Status()
}
