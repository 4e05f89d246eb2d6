package jitter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/protocol/logger"
)

func TestStaticController(t *testing.T) {
	c := NewStaticController(0, logger.GetLogger())
	require.Equal(t, DefaultMaxPackets, c.MaxPackets())

	c.SetMaxPackets(10)
	require.Equal(t, 10, c.MaxPackets())

	c.NewPacket(160, 170)
	c.NewPacket(320, 330)
	c.UpdateSize(3)
	c.UpdateSize(1)
	c.OnPayloadTypeChange(0, 8000)

	stats := c.Stats()
	require.Equal(t, uint64(2), stats.Packets)
	require.Equal(t, uint32(320), stats.LastTS)
	require.Equal(t, uint32(330), stats.LastLocalTS)
	require.Equal(t, 1, stats.QueueLen)
	require.Equal(t, 3, stats.MaxQueueLen)
	require.Equal(t, uint32(8000), stats.ClockRate)
}
