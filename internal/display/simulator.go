package display

import (
	"context"
	"image/color"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/normanking/matrixface/internal/geom"
)

// FrameMessage is pushed to simulator clients after every frame change.
type FrameMessage struct {
	Type       string `json:"type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Pixels     []bool `json:"pixels"` // row-major
	Brightness int    `json:"brightness"`
	Timestamp  string `json:"timestamp"`
}

// Simulator is a Sink that mirrors the frame to websocket clients, so
// the face can be watched in a browser without matrix hardware. It
// implements http.Handler for the websocket endpoint.
type Simulator struct {
	fb       *Framebuffer
	upgrader websocket.Upgrader
	log      zerolog.Logger

	// mu guards the framebuffer and the client set.
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

var (
	_ Sink         = (*Simulator)(nil)
	_ Panner       = (*Simulator)(nil)
	_ http.Handler = (*Simulator)(nil)
)

// NewSimulator creates a simulator sink with a w x h virtual panel.
func NewSimulator(w, h int, logger zerolog.Logger) *Simulator {
	return &Simulator{
		fb: NewFramebuffer(w, h),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:     logger.With().Str("component", "simulator").Logger(),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Size returns the virtual panel dimensions.
func (s *Simulator) Size() (int, int) {
	return s.fb.Size()
}

// Clear blanks the panel and notifies clients.
func (s *Simulator) Clear() error {
	s.mu.Lock()
	err := s.fb.Clear()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// DrawPoints lights pixels and notifies clients.
func (s *Simulator) DrawPoints(points []geom.Point, c color.Color) error {
	s.mu.Lock()
	err := s.fb.DrawPoints(points, c)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// DrawLines rasterizes segments and notifies clients.
func (s *Simulator) DrawLines(segments []geom.Segment, c color.Color) error {
	s.mu.Lock()
	err := s.fb.DrawLines(segments, c)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// SetBrightness adjusts the virtual intensity and notifies clients.
// Brightness may arrive from the config watcher goroutine while the
// animation goroutine is drawing.
func (s *Simulator) SetBrightness(level int) error {
	s.mu.Lock()
	err := s.fb.SetBrightness(level)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// SetScrollMode enables viewport panning on the backing buffer.
func (s *Simulator) SetScrollMode(enabled bool) {
	s.mu.Lock()
	s.fb.SetScrollMode(enabled)
	s.mu.Unlock()
}

// SetPosition shifts the viewport origin by offset columns.
func (s *Simulator) SetPosition(offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fb.SetPosition(offset)
}

// ServeHTTP upgrades the request to a websocket session and streams
// frames until the client disconnects.
func (s *Simulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	// Catch the client up with the current frame.
	err = conn.WriteJSON(s.frameLocked())
	s.mu.Unlock()

	if err != nil {
		s.drop(conn)
		return
	}

	s.log.Debug().Str("addr", conn.RemoteAddr().String()).Msg("simulator client connected")

	// Drain client reads; the protocol is push-only.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ListenAndServe serves the simulator endpoint at addr until ctx is
// canceled, then closes all client connections. Hijacked websocket
// sessions are outside http.Server.Shutdown's reach and are closed
// explicitly.
func (s *Simulator) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("simulator listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	errg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	})

	return errg.Wait()
}

// closeAll disconnects every client.
func (s *Simulator) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Simulator) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) == 0 {
		return
	}

	msg := s.frameLocked()
	for conn := range s.clients {
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Debug().Err(err).Msg("dropping simulator client")
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Simulator) frameLocked() FrameMessage {
	w, h := s.fb.Size()
	return FrameMessage{
		Type:       "frame",
		Width:      w,
		Height:     h,
		Pixels:     s.fb.Snapshot(),
		Brightness: s.fb.Brightness(),
		Timestamp:  time.Now().Format(time.RFC3339Nano),
	}
}

func (s *Simulator) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[conn]; ok {
		conn.Close()
		delete(s.clients, conn)
	}
}
