package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveOperation("create_entry", nil, 2*time.Millisecond)
	c.ObserveOperation("create_entry", nil, time.Millisecond)
	c.ObserveOperation("create_entry", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("create_entry", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("create_entry", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestCollector_RecordBackup(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackup("export", nil)
	c.RecordBackup("restore", errors.New("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.backups.WithLabelValues("export", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.backups.WithLabelValues("restore", "error")))
}

func TestNewCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}

func TestWriteSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveOperation("get_entry", nil, time.Millisecond)
	c.RecordBackup("export", nil)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "gophdiary_store_operations_total{op=get_entry,result=ok} 1")
	assert.Contains(t, out, "gophdiary_backups_total{kind=export,result=ok} 1")
	assert.Contains(t, out, "gophdiary_store_operation_duration_seconds{op=get_entry} count=1")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveOperation("x", nil, 0)
	r.RecordBackup("export", nil)
}
