package service

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/stun"
	"github.com/stretchr/testify/require"

	"github.com/livekit/rtprx/pkg/config"
)

func newTestConfig(t *testing.T, body string) *config.Config {
	t.Helper()

	conf, err := config.NewConfig(body, true, nil, nil)
	require.NoError(t, err)
	conf.BindAddress = "127.0.0.1"
	conf.Port = 0
	return conf
}

func startTestServer(t *testing.T, conf *config.Config) (*ReceiverServer, *net.UDPConn) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping server test in short mode")
	}

	s, err := InitializeServer(conf)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.ErrorIs(t, s.Start(), ErrAlreadyRunning)
	t.Cleanup(s.Stop)

	conn, err := net.DialUDP("udp", nil, s.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return s, conn
}

func sendRTP(t *testing.T, conn *net.UDPConn, sn uint16, ts uint32) {
	t.Helper()

	raw, err := (&rtp.Packet{
		Header:  rtp.Header{Version: 2, SequenceNumber: sn, Timestamp: ts, SSRC: 0x5678},
		Payload: make([]byte, 160),
	}).Marshal()
	require.NoError(t, err)
	_, err = conn.Write(raw)
	require.NoError(t, err)
}

func freePort(t *testing.T) uint32 {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return uint32(ln.Addr().(*net.TCPAddr).Port)
}

func TestReceiverServer(t *testing.T) {
	s, conn := startTestServer(t, newTestConfig(t, ""))
	require.True(t, s.IsRunning())

	for sn := uint16(1); sn <= 5; sn++ {
		sendRTP(t, conn, sn, uint32(sn)*160)
	}

	msg, err := stun.Build(stun.TransactionID, stun.BindingRequest, stun.Fingerprint)
	require.NoError(t, err)
	_, err = conn.Write(msg.Raw)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Delivered() == 5
	}, 5*time.Second, 10*time.Millisecond)

	counters := s.Counters()
	require.Equal(t, uint64(5), counters.PacketsReceived)
	require.Equal(t, uint64(0), counters.Bad)
	require.Equal(t, conn.LocalAddr().String(), s.Session().RemoteAddr().String())

	s.Stop()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestReceiverServerFeedback(t *testing.T) {
	conf := newTestConfig(t, `receiver:
  sender_ssrc: 1
  feedback:
    immediate_nack: true`)
	s, conn := startTestServer(t, conf)

	sendRTP(t, conn, 1, 160)
	require.Eventually(t, func() bool {
		return s.Delivered() == 1
	}, 5*time.Second, 10*time.Millisecond)

	sendRTP(t, conn, 4, 640)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 1500)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	pkts, err := rtcp.Unmarshal(buf[:n])
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	nack, ok := pkts[0].(*rtcp.TransportLayerNack)
	require.True(t, ok)
	require.Equal(t, uint32(1), nack.SenderSSRC)
	require.Equal(t, uint32(0x5678), nack.MediaSSRC)
	require.Equal(t, []rtcp.NackPair{{PacketID: 2, LostPackets: 0x0001}}, nack.Nacks)
	require.Equal(t, uint64(1), s.FeedbackSent())
}

func TestReceiverServerTimestampJump(t *testing.T) {
	s, conn := startTestServer(t, newTestConfig(t, ""))

	sendRTP(t, conn, 1, 160)
	require.Eventually(t, func() bool {
		return s.Delivered() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// 60s ahead at 8kHz
	sendRTP(t, conn, 2, 160+480000)
	sendRTP(t, conn, 3, 320+480000)

	require.Eventually(t, func() bool {
		return s.Delivered() == 3
	}, 5*time.Second, 10*time.Millisecond)

	counters := s.Counters()
	require.Equal(t, uint64(3), counters.PacketsReceived)
	require.Equal(t, uint64(0), counters.Discarded)
	require.Equal(t, uint64(0), counters.OutOfTime)
}

func TestReceiverServerMetrics(t *testing.T) {
	conf := newTestConfig(t, "")
	conf.PrometheusPort = freePort(t)
	s, conn := startTestServer(t, conf)

	sendRTP(t, conn, 1, 160)
	require.Eventually(t, func() bool {
		return s.Counters().PacketsReceived == 1
	}, 5*time.Second, 10*time.Millisecond)

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", conf.PrometheusPort))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.Contains(t, string(body), "rtprx_packet_received_total")
	require.Contains(t, string(body), `rtprx_session_queue_length{node_id=`)
}

func TestNewSessionParams(t *testing.T) {
	conf := newTestConfig(t, `receiver:
  clock_rate: 48000
  payload_types:
    96: 90000
  telephone_event_payload_types: [101]
  max_packets: 10`)

	params := newSessionParams(conf, nil, newLogger())
	require.Equal(t, uint32(48000), params.Profile.DefaultClockRate())
	require.Equal(t, uint32(90000), params.Profile.ClockRate(96))
	require.True(t, params.Profile.IsTelephoneEvent(101))
	require.Equal(t, 10, params.JitterController.MaxPackets())
	require.Equal(t, 50, params.SSRCChangedThreshold)
	require.True(t, params.Feedback.GenericNack)
	require.True(t, params.ResyncOnTimestampJump)
}
