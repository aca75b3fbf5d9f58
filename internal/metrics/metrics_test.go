package metrics_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/metrics"
	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObservesLedger(t *testing.T) {
	c := metrics.New()
	idx := catalog.Build([]catalog.Record{
		{Barcode: "101200000001", OwnerLibraryCode: "12", LoanEligibilityCode: "0", CollectionStatusCode: "0"},
	})
	s := session.New("count", "12", "", session.Options{Index: idx, Observers: []session.Observer{c}})

	first, err := s.AddScan("101200000001")
	require.NoError(t, err)
	_, err = s.AddScan("101200000001")
	require.NoError(t, err)
	_, err = s.AddScan("7")
	require.NoError(t, err)
	require.NoError(t, s.DeleteScan(first.ID))
	s.ClearAll()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Scans.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Scans.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Warnings.WithLabelValues("auto_completed_not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Deletions))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Clears))
}

func TestCollector_Observe(t *testing.T) {
	c := metrics.New()
	c.Observe(report.Summary{
		Coverage:   report.Coverage{Valid: 3, Warned: 1, Missing: 6, Total: 10},
		Throughput: report.Throughput{Scanned: 1, PerMinute: math.Inf(1)},
	})
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Coverage.WithLabelValues("valid")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.Coverage.WithLabelValues("missing")))
	assert.True(t, math.IsInf(testutil.ToFloat64(c.Rate), 1))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := metrics.New()
	c.Clears.Add(4)
	path := filepath.Join(t.TempDir(), "shelfcount.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "shelfcount_events_cleared_total 4"))
}
