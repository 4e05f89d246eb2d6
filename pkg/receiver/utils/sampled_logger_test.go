package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/protocol/logger"
)

func TestSampledLogger(t *testing.T) {
	s := NewSampledLogger(logger.GetLogger(), 5)

	var logged []uint64
	for i := 0; i < 130; i++ {
		if s.sample() {
			logged = append(logged, s.Occurrences())
		}
	}
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 10, 15, 20, 25, 50, 75, 100, 125}, logged)
	require.Equal(t, uint64(130), s.Occurrences())

	s.Warnw("still counting", nil)
	require.Equal(t, uint64(131), s.Occurrences())
}
