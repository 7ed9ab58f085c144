package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSyncCounters(t *testing.T) {
	passesBefore := testutil.ToFloat64(globalManager.syncPasses)
	errorsBefore := testutil.ToFloat64(globalManager.syncErrors)

	RecordSyncPass()
	RecordSyncError()

	assert.Equal(t, passesBefore+1, testutil.ToFloat64(globalManager.syncPasses))
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(globalManager.syncErrors))
}

func TestRecordSubmissionTransition(t *testing.T) {
	RecordSubmissionTransition("pre_scored", 3)

	counter := globalManager.submissionTransitions.WithLabelValues("pre_scored")
	assert.GreaterOrEqual(t, testutil.ToFloat64(counter), 3.0)
}
