package display

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/matrixface/internal/geom"
)

func dialSimulator(t *testing.T, sim *Simulator) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(sim)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) FrameMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg FrameMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSimulatorSendsInitialFrame(t *testing.T) {
	sim := NewSimulator(8, 8, zerolog.Nop())
	conn := dialSimulator(t, sim)

	msg := readFrame(t, conn)
	assert.Equal(t, "frame", msg.Type)
	assert.Equal(t, 8, msg.Width)
	assert.Equal(t, 8, msg.Height)
	assert.Len(t, msg.Pixels, 64)
}

func TestSimulatorBroadcastsDraws(t *testing.T) {
	sim := NewSimulator(8, 8, zerolog.Nop())
	conn := dialSimulator(t, sim)
	readFrame(t, conn) // initial frame

	require.NoError(t, sim.DrawPoints([]geom.Point{{X: 2, Y: 2}}, On))

	msg := readFrame(t, conn)
	assert.True(t, msg.Pixels[2*8+2], "drawn pixel must appear in the broadcast frame")

	lit := 0
	for _, px := range msg.Pixels {
		if px {
			lit++
		}
	}
	assert.Equal(t, 1, lit)
}

func TestSimulatorBroadcastsBrightness(t *testing.T) {
	sim := NewSimulator(8, 8, zerolog.Nop())
	conn := dialSimulator(t, sim)
	readFrame(t, conn)

	require.NoError(t, sim.SetBrightness(3))
	msg := readFrame(t, conn)
	assert.Equal(t, 3, msg.Brightness)
}

func TestSimulatorBrightnessValidation(t *testing.T) {
	sim := NewSimulator(8, 8, zerolog.Nop())
	assert.ErrorIs(t, sim.SetBrightness(-1), ErrInvalidParameter)
	assert.ErrorIs(t, sim.SetBrightness(16), ErrInvalidParameter)
}

func TestSimulatorCloseAllDisconnectsClients(t *testing.T) {
	sim := NewSimulator(8, 8, zerolog.Nop())
	conn := dialSimulator(t, sim)
	readFrame(t, conn)

	sim.closeAll()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "a closed session must not deliver further frames")

	// Draws after shutdown must not reach the dropped client.
	require.NoError(t, sim.DrawPoints([]geom.Point{{X: 1, Y: 1}}, On))
}

func TestSimulatorIsASink(t *testing.T) {
	// Draws without clients must not block or fail.
	sim := NewSimulator(8, 8, zerolog.Nop())
	require.NoError(t, sim.Clear())
	require.NoError(t, sim.DrawLines([]geom.Segment{geom.Line(1, 5, 6, 5)}, On))
	require.NoError(t, sim.Clear())
}
