//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package domain

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrInjectedFault marks every error originated by a deliberately injected
// fault, as opposed to a real failure of the underlying runtime.
var ErrInjectedFault = errors.New("injected fault")

// MemcpyKind is the transfer-kind code carried by the copy-to-device entry
// point. Values follow the cudaMemcpyKind enumeration.
type MemcpyKind int

const (
	MemcpyHostToHost MemcpyKind = iota
	MemcpyHostToDevice
	MemcpyDeviceToHost
	MemcpyDeviceToDevice
	MemcpyDefault
)

func (k MemcpyKind) String() string {
	switch k {
	case MemcpyHostToHost:
		return "HostToHost"
	case MemcpyHostToDevice:
		return "HostToDevice"
	case MemcpyDeviceToHost:
		return "DeviceToHost"
	case MemcpyDeviceToDevice:
		return "DeviceToDevice"
	case MemcpyDefault:
		return "Default"
	}
	return fmt.Sprintf("MemcpyKind(%d)", int(k))
}

// ProcHandle identifies a VE process context, as handed to the VEO memory
// primitives.
type ProcHandle uintptr

//
// Copy-to-device seam. Host code depends on this interface instead of the
// cudaMemcpy symbol.
//
type DeviceRuntimeIface interface {
	Memcpy(dst uintptr, src uintptr, size uint64, kind MemcpyKind) Status
}

//
// Remote (VE) memory seam. Host code depends on this interface instead of the
// veo_read_mem / veo_write_mem symbols.
//
type RemoteMemoryIface interface {
	ReadMem(h ProcHandle, dst uintptr, src uint64, size uint64) Status
	WriteMem(h ProcHandle, dst uint64, src uintptr, size uint64) Status
}
