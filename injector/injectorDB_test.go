//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package injector_test

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestybox/memfault/domain"
	"github.com/nestybox/memfault/injector"
	"github.com/nestybox/memfault/metrics"
)

func TestNewInjectorService_Defaults(t *testing.T) {

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), nil)

	eps := ijs.EntryPoints()
	require.Len(t, eps, 3)

	// Radix-tree walk yields lexicographic order.
	assert.Equal(t, domain.CudaMemcpy, eps[0].Name())
	assert.Equal(t, domain.VeoReadMem, eps[1].Name())
	assert.Equal(t, domain.VeoWriteMem, eps[2].Name())

	for _, ep := range eps {
		assert.Equal(t, injector.DefaultTriggers[ep.Name()], ep.Trigger())
		assert.Equal(t, int64(0), ep.Count())
	}
}

func TestInjectorService_Register(t *testing.T) {

	ijs := injector.NewInjectorService(nil, nil)

	tests := []struct {
		name    string
		ep      domain.EntryPointIface
		wantErr bool
	}{
		{
			name:    "1",
			ep:      injector.NewEntryPoint(domain.CudaMemcpy, 0),
			wantErr: false,
		},
		{
			// Duplicated name.
			name:    "2",
			ep:      injector.NewEntryPoint(domain.CudaMemcpy, 3),
			wantErr: true,
		},
		{
			name:    "3",
			ep:      injector.NewEntryPoint(domain.VeoReadMem, 1),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ijs.RegisterEntryPoint(tt.ep)
			if (err != nil) != tt.wantErr {
				t.Errorf("RegisterEntryPoint() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// Original registration is preserved.
	ep, ok := ijs.LookupEntryPoint(domain.CudaMemcpy)
	require.True(t, ok)
	assert.Equal(t, int64(0), ep.Trigger())
}

func TestInjectorService_Unregister(t *testing.T) {

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), nil)

	require.NoError(t, ijs.UnregisterEntryPoint(domain.VeoWriteMem))
	assert.Error(t, ijs.UnregisterEntryPoint(domain.VeoWriteMem))

	_, ok := ijs.LookupEntryPoint(domain.VeoWriteMem)
	assert.False(t, ok)
	assert.Len(t, ijs.EntryPoints(), 2)

	_, _, err := ijs.Invoke(domain.VeoWriteMem)
	assert.Error(t, err)
}

func TestInjectorService_LookupPrefix(t *testing.T) {

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), nil)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"veo_", []string{domain.VeoReadMem, domain.VeoWriteMem}},
		{"veo_read", []string{domain.VeoReadMem}},
		{"cuda", []string{domain.CudaMemcpy}},
		{"nccl", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			var got []string
			for _, ep := range ijs.LookupPrefix(tt.prefix) {
				got = append(got, ep.Name())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInjectorService_SetTrigger(t *testing.T) {

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), nil)

	require.NoError(t, ijs.SetTrigger(domain.CudaMemcpy, 2))
	assert.Error(t, ijs.SetTrigger("cudaMemcpyAsync", 2))

	ep, _ := ijs.LookupEntryPoint(domain.CudaMemcpy)
	assert.Equal(t, int64(2), ep.Trigger())
}

// Two entry points with different trigger indices, called interleaved, fire
// independently.
func TestInjectorService_IndependentEntryPoints(t *testing.T) {

	ijs := injector.NewInjectorService([]domain.EntryPointIface{
		injector.NewEntryPoint(domain.VeoReadMem, 1),
		injector.NewEntryPoint(domain.VeoWriteMem, 0),
	}, nil)

	calls := []struct {
		entryPoint string
		want       domain.Outcome
	}{
		{domain.VeoReadMem, domain.Success},
		{domain.VeoWriteMem, domain.Fault},
		{domain.VeoReadMem, domain.Fault},
		{domain.VeoWriteMem, domain.Success},
		{domain.VeoReadMem, domain.Success},
		{domain.VeoWriteMem, domain.Success},
	}

	for i, c := range calls {
		got, _, err := ijs.Invoke(c.entryPoint)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "call %d to %s", i, c.entryPoint)
	}

	rd, _ := ijs.LookupEntryPoint(domain.VeoReadMem)
	wr, _ := ijs.LookupEntryPoint(domain.VeoWriteMem)
	assert.Equal(t, int64(2), rd.Count())
	assert.Equal(t, int64(2), wr.Count())
}

func TestInjectorService_ResetAll(t *testing.T) {

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), nil)

	for i := 0; i < 3; i++ {
		ijs.Invoke(domain.CudaMemcpy)
		ijs.Invoke(domain.VeoReadMem)
	}

	ijs.ResetAll()

	for _, ep := range ijs.EntryPoints() {
		assert.Equal(t, int64(0), ep.Count(), ep.Name())
	}

	// Counters start over, so the configured fault fires again.
	got, _, _ := ijs.Invoke(domain.CudaMemcpy)
	assert.Equal(t, domain.Fault, got)
}

func TestInjectorService_Metrics(t *testing.T) {

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), m)

	for i := 0; i < 3; i++ {
		ijs.Invoke(domain.VeoReadMem)
	}

	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.Calls.WithLabelValues(domain.VeoReadMem, "success")))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.Calls.WithLabelValues(domain.VeoReadMem, "fault")))
	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.Counts.WithLabelValues(domain.VeoReadMem)))

	ijs.ResetAll()
	assert.Equal(t, 0.0,
		testutil.ToFloat64(m.Counts.WithLabelValues(domain.VeoReadMem)))
}

func TestInjectorService_MetricsConcurrentCallers(t *testing.T) {

	const (
		workers = 8
		calls   = 100
	)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	ijs := injector.NewInjectorService(injector.DefaultEntryPoints(), m)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				ijs.Invoke(domain.CudaMemcpy)
			}
		}()
	}
	wg.Wait()

	ep, ok := ijs.LookupEntryPoint(domain.CudaMemcpy)
	require.True(t, ok)
	require.Equal(t, int64(workers*calls-1), ep.Count())

	// The gauge must end on the final counter, not on a late-published
	// intermediate value.
	assert.Equal(t, float64(ep.Count()),
		testutil.ToFloat64(m.Counts.WithLabelValues(domain.CudaMemcpy)))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.Calls.WithLabelValues(domain.CudaMemcpy, "fault")))
}
