//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package interceptor

import (
	"github.com/sirupsen/logrus"

	"github.com/nestybox/memfault/domain"
)

var _ domain.DeviceRuntimeIface = (*cudaRuntime)(nil)

// cudaRuntime stands in for the CUDA runtime's copy-to-device primitive.
type cudaRuntime struct {
	interceptor
}

func NewCudaRuntime(
	ijs domain.InjectorServiceIface,
	jrs domain.JournalServiceIface,
	log *logrus.Logger) domain.DeviceRuntimeIface {

	return &cudaRuntime{
		interceptor: newInterceptor(ijs, jrs, log),
	}
}

// Memcpy impersonates cudaMemcpy(dst, src, count, kind).
func (c *cudaRuntime) Memcpy(
	dst uintptr,
	src uintptr,
	size uint64,
	kind domain.MemcpyKind) domain.Status {

	return c.intercept(
		domain.CudaMemcpy,
		hexArg("dst", uint64(dst)),
		hexArg("src", uint64(src)),
		decArg("count", size),
		decArg("kind", int(kind)),
	)
}
