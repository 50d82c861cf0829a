//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli"

	"github.com/nestybox/memfault/domain"
)

// Fixed operands used when issuing calls from the command line.
const (
	cliDst  uintptr = 0x1000
	cliSrc  uintptr = 0x2000
	cliSize uint64  = 80
	cliProc         = domain.ProcHandle(0x7e000000)
)

func callCmd(ctx *cli.Context) error {

	name := ctx.Args().First()
	if name == "" {
		return cli.NewExitError("missing entry-point argument", 2)
	}

	statuses, err := issueCalls(svc, name, ctx.Int("times"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	printCalls(os.Stdout, name, statuses)

	return nil
}

// issueCalls invokes the named entry point n times through its interceptor.
func issueCalls(s *services, name string, n int) ([]domain.Status, error) {

	if n < 0 {
		return nil, errors.Newf("invalid number of calls %d", n)
	}

	var call func() domain.Status

	switch name {
	case domain.CudaMemcpy:
		call = func() domain.Status {
			return s.drs.Memcpy(cliDst, cliSrc, cliSize, domain.MemcpyHostToDevice)
		}
	case domain.VeoReadMem:
		call = func() domain.Status {
			return s.rms.ReadMem(cliProc, cliDst, uint64(cliSrc), cliSize)
		}
	case domain.VeoWriteMem:
		call = func() domain.Status {
			return s.rms.WriteMem(cliProc, uint64(cliDst), cliSrc, cliSize)
		}
	default:
		return nil, errors.Newf("invalid fault injection entry point %q", name)
	}

	statuses := make([]domain.Status, 0, n)
	for i := 0; i < n; i++ {
		statuses = append(statuses, call())
	}

	return statuses, nil
}

func printCalls(w io.Writer, name string, statuses []domain.Status) {
	for i, st := range statuses {
		fmt.Fprintf(w, "%s #%d: %d (%s)\n", name, i, st, domain.OutcomeOf(st))
	}
}

func transferCmd(ctx *cli.Context) error {

	from, err := domain.ParseDeviceType(ctx.String("from"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	to, err := domain.ParseDeviceType(ctx.String("to"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	src := domain.Buffer{
		Device: domain.Device{Type: from},
		Addr:   cliSrc,
		Size:   ctx.Uint64("size"),
	}

	dst, err := svc.trs.Transfer(src, domain.Device{Type: to})
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	fmt.Fprintf(os.Stdout, "%v -> %v\n", src, dst)

	return nil
}

func statusCmd(ctx *cli.Context) error {
	printStatus(os.Stdout, svc.ijs)
	return nil
}

func printStatus(w io.Writer, ijs domain.InjectorServiceIface) {
	for _, ep := range ijs.EntryPoints() {
		fmt.Fprintf(w, "%-14s trigger = %-3d count = %-3d %s\n",
			ep.Name(), ep.Trigger(), ep.Count(), ep.State())
	}
}
