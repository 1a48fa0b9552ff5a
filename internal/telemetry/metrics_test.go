package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJoinRequestTransitions(t *testing.T) {
	before := testutil.ToFloat64(JoinRequestTransitions.WithLabelValues("APPROVED"))
	JoinRequestTransitions.WithLabelValues("APPROVED").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(JoinRequestTransitions.WithLabelValues("APPROVED")))
}
