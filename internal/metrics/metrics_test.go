package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/metrics"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.RecordPayment("cash")
		m.RecordCharges(1, 2, 3)
		m.RecordStatusOverride("paid")
		m.RecordTenancy(metrics.TenancyCreated)
		m.RecordRateFallback("monthly", "daily")
		m.RecordReminders(4)
		m.RecordRateLimited()
	})
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, metrics.Config{ServiceName: "test", Environment: "ci"})

	m.RecordPayment("cash")
	m.RecordPayment("cash")
	m.RecordPayment("bank")
	m.RecordCharges(3, 1, 2)
	m.RecordTenancy(metrics.TenancyCreated)
	m.RecordReminders(5)

	n, err := testutil.GatherAndCount(reg, "rentledger_charges_applied_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(reg, "rentledger_payments_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_RegisterTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg, metrics.Config{})

	assert.Panics(t, func() { metrics.New(reg, metrics.Config{}) })
}
