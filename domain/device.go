//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

type DeviceType int

const (
	Host DeviceType = iota
	CudaGPU
	VE
)

func (t DeviceType) String() string {
	switch t {
	case Host:
		return "host"
	case CudaGPU:
		return "gpu"
	case VE:
		return "ve"
	}
	return fmt.Sprintf("device(%d)", int(t))
}

// ParseDeviceType accepts the names printed by DeviceType.String() plus the
// long forms "cuda" and "vector-engine".
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(s) {
	case "host":
		return Host, nil
	case "gpu", "cuda":
		return CudaGPU, nil
	case "ve", "vector-engine":
		return VE, nil
	}
	return Host, errors.Newf("unknown device type %q", s)
}

type Device struct {
	Type DeviceType
	ID   int
}

func (d Device) String() string {
	if d.Type == Host {
		return d.Type.String()
	}
	return fmt.Sprintf("%s:%d", d.Type, d.ID)
}

// Buffer is a handle to a memory region living on a given device. No data is
// carried; only the address and length take part in intercepted calls.
type Buffer struct {
	Device Device
	Addr   uintptr
	Size   uint64
}

func (b Buffer) String() string {
	return fmt.Sprintf("%v@%#x[%d]", b.Device, b.Addr, b.Size)
}

type TransferServiceIface interface {
	Transfer(b Buffer, target Device) (Buffer, error)
	TransferAll(bufs []Buffer, target Device) ([]Buffer, error)
	Exec(target Device, fn func(args []Buffer) error, args ...Buffer) error
}
