//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package interceptor

import (
	"github.com/sirupsen/logrus"

	"github.com/nestybox/memfault/domain"
)

var _ domain.RemoteMemoryIface = (*veoRuntime)(nil)

// veoRuntime stands in for the VE offload runtime's memory primitives. Read
// and write paths are tracked by distinct entry points, so each one keeps
// (and logs) its own counter.
type veoRuntime struct {
	interceptor
}

func NewVeoRuntime(
	ijs domain.InjectorServiceIface,
	jrs domain.JournalServiceIface,
	log *logrus.Logger) domain.RemoteMemoryIface {

	return &veoRuntime{
		interceptor: newInterceptor(ijs, jrs, log),
	}
}

// ReadMem impersonates veo_read_mem(h, dst, src, size).
func (v *veoRuntime) ReadMem(
	h domain.ProcHandle,
	dst uintptr,
	src uint64,
	size uint64) domain.Status {

	return v.intercept(
		domain.VeoReadMem,
		hexArg("h", uint64(h)),
		hexArg("dst", uint64(dst)),
		hexArg("src", src),
		decArg("size", size),
	)
}

// WriteMem impersonates veo_write_mem(h, dst, src, size).
func (v *veoRuntime) WriteMem(
	h domain.ProcHandle,
	dst uint64,
	src uintptr,
	size uint64) domain.Status {

	return v.intercept(
		domain.VeoWriteMem,
		hexArg("h", uint64(h)),
		hexArg("dst", dst),
		hexArg("src", uint64(src)),
		decArg("size", size),
	)
}
