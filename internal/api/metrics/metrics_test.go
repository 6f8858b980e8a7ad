package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder

	before := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("movies", "get", "ok"))
	r.StoreOperation("movies", "get", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("movies", "get", "ok")))

	before = testutil.ToFloat64(FieldsRedactedTotal.WithLabelValues("movies", ".read"))
	r.FieldsRedacted("movies", ".read", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(FieldsRedactedTotal.WithLabelValues("movies", ".read")))

	before = testutil.ToFloat64(SessionsOpenedTotal)
	r.SessionOpened()
	assert.Equal(t, before+1, testutil.ToFloat64(SessionsOpenedTotal))
}
