//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package transfer

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/nestybox/memfault/domain"
)

// Ensure transferService implements TransferServiceIface.
var _ domain.TransferServiceIface = (*transferService)(nil)

const (
	// First address handed out by the staging allocator.
	allocBase uintptr = 0x10000

	// Allocation granularity.
	allocAlign uintptr = 0x100

	// Base of the VE process handles.
	procBase uintptr = 0x7e000000
)

//
// transferService moves buffers across devices the way the host system does:
// directly when source and target share a device type, through host memory
// otherwise. Every device access goes through the runtime seams, so whatever
// implementation backs them (real runtime or interceptor) decides whether
// the step succeeds.
//
type transferService struct {
	sync.Mutex

	drs domain.DeviceRuntimeIface
	rms domain.RemoteMemoryIface

	// Next address to hand out.
	next uintptr

	// VE process handles, one per VE id.
	procs map[int]domain.ProcHandle
}

func NewTransferService(
	drs domain.DeviceRuntimeIface,
	rms domain.RemoteMemoryIface) domain.TransferServiceIface {

	return &transferService{
		drs:   drs,
		rms:   rms,
		next:  allocBase,
		procs: make(map[int]domain.ProcHandle),
	}
}

func (ts *transferService) Transfer(b domain.Buffer, target domain.Device) (domain.Buffer, error) {

	// TODO: compare device ids too once multi-device targets are routed
	// through distinct runtimes.
	if b.Device.Type == target.Type {
		return b, nil
	}

	logrus.Debugf("Transferring %v to %v", b, target)

	onHost, err := ts.toHost(b)
	if err != nil {
		return domain.Buffer{}, err
	}

	if target.Type == domain.Host {
		return onHost, nil
	}

	return ts.fromHost(onHost, target)
}

func (ts *transferService) TransferAll(
	bufs []domain.Buffer,
	target domain.Device) ([]domain.Buffer, error) {

	out := make([]domain.Buffer, 0, len(bufs))

	for i, b := range bufs {
		nb, err := ts.Transfer(b, target)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		out = append(out, nb)
	}

	return out, nil
}

// Exec transfers every argument to target and then runs fn on the converted
// buffers.
func (ts *transferService) Exec(
	target domain.Device,
	fn func(args []domain.Buffer) error,
	args ...domain.Buffer) error {

	converted, err := ts.TransferAll(args, target)
	if err != nil {
		return err
	}

	return fn(converted)
}

func (ts *transferService) toHost(b domain.Buffer) (domain.Buffer, error) {

	dst := domain.Buffer{
		Device: domain.Device{Type: domain.Host},
		Size:   b.Size,
	}

	switch b.Device.Type {
	case domain.Host:
		return b, nil

	case domain.CudaGPU:
		dst.Addr = ts.alloc(b.Size)
		st := ts.drs.Memcpy(dst.Addr, b.Addr, b.Size, domain.MemcpyDeviceToHost)
		if err := checkStatus(domain.CudaMemcpy, st); err != nil {
			return domain.Buffer{}, err
		}

	case domain.VE:
		dst.Addr = ts.alloc(b.Size)
		st := ts.rms.ReadMem(ts.proc(b.Device.ID), dst.Addr, uint64(b.Addr), b.Size)
		if err := checkStatus(domain.VeoReadMem, st); err != nil {
			return domain.Buffer{}, err
		}

	default:
		return domain.Buffer{}, errors.Newf("src is an unsupported device: %v", b.Device)
	}

	return dst, nil
}

func (ts *transferService) fromHost(b domain.Buffer, target domain.Device) (domain.Buffer, error) {

	dst := domain.Buffer{
		Device: target,
		Addr:   ts.alloc(b.Size),
		Size:   b.Size,
	}

	switch target.Type {
	case domain.CudaGPU:
		st := ts.drs.Memcpy(dst.Addr, b.Addr, b.Size, domain.MemcpyHostToDevice)
		if err := checkStatus(domain.CudaMemcpy, st); err != nil {
			return domain.Buffer{}, err
		}

	case domain.VE:
		st := ts.rms.WriteMem(ts.proc(target.ID), uint64(dst.Addr), b.Addr, b.Size)
		if err := checkStatus(domain.VeoWriteMem, st); err != nil {
			return domain.Buffer{}, err
		}

	default:
		return domain.Buffer{}, errors.Newf("dst is an unsupported device: %v", target)
	}

	return dst, nil
}

func (ts *transferService) alloc(size uint64) uintptr {
	ts.Lock()
	defer ts.Unlock()

	addr := ts.next
	n := (uintptr(size) + allocAlign - 1) &^ (allocAlign - 1)
	if n == 0 {
		n = allocAlign
	}
	ts.next += n

	return addr
}

func (ts *transferService) proc(id int) domain.ProcHandle {
	ts.Lock()
	defer ts.Unlock()

	h, ok := ts.procs[id]
	if !ok {
		h = domain.ProcHandle(procBase + uintptr(id)*allocAlign)
		ts.procs[id] = h
	}

	return h
}

// checkStatus turns a failed entry-point status into an error carrying the
// entry point's name, marked as an injected fault.
func checkStatus(entryPoint string, st domain.Status) error {
	if st == domain.StatusSuccess {
		return nil
	}

	logrus.Errorf("%s returned %d", entryPoint, st)

	return errors.Mark(errors.Newf("%s failed", entryPoint), domain.ErrInjectedFault)
}
