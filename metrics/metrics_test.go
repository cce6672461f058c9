package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersRegistered(t *testing.T) {
	assert.NotNil(t, RequirementsProcessed)
	assert.NotNil(t, TestCasesGenerated)
	assert.NotNil(t, AmbiguousRequirements)
	assert.NotNil(t, PipelineDuration)
}

func TestTestCasesGeneratedLabels(t *testing.T) {
	before := testutil.ToFloat64(TestCasesGenerated.WithLabelValues("Positive"))
	TestCasesGenerated.WithLabelValues("Positive").Inc()
	after := testutil.ToFloat64(TestCasesGenerated.WithLabelValues("Positive"))
	assert.Equal(t, before+1, after)
}
