package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFrameSinkRejectsEmptyDSN(t *testing.T) {
	_, err := OpenFrameSink(SinkConfig{})
	require.Error(t, err)
}

func TestOpenFrameSinkFillsDefaults(t *testing.T) {
	sink, err := OpenFrameSink(SinkConfig{DSN: "tcp://localhost:9000?database=default"})
	require.NoError(t, err)
	require.Equal(t, "augstream_frames", sink.framesTable)
	require.Equal(t, "augstream_cssr_stats", sink.statsTable)
	require.Equal(t, 200, sink.batchSize)
	require.NotEmpty(t, sink.RunID())
}

func TestOpenFrameSinkAssignsDistinctRunIDs(t *testing.T) {
	a, err := OpenFrameSink(SinkConfig{DSN: "tcp://localhost:9000?database=default"})
	require.NoError(t, err)
	b, err := OpenFrameSink(SinkConfig{DSN: "tcp://localhost:9000?database=default"})
	require.NoError(t, err)
	require.NotEqual(t, a.RunID(), b.RunID())
}

func TestFrameSinkFlushNoopsWhenEmpty(t *testing.T) {
	sink, err := OpenFrameSink(SinkConfig{DSN: "tcp://localhost:9000?database=default"})
	require.NoError(t, err)
	require.NoError(t, sink.Flush())
}
