package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsRecord(t *testing.T) {
	before := testutil.ToFloat64(SlotLocks.WithLabelValues("conflict"))
	SlotLocks.WithLabelValues("conflict").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SlotLocks.WithLabelValues("conflict")))

	before = testutil.ToFloat64(SweptLocks)
	SweptLocks.Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(SweptLocks))
}
