package source

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fundedlabs/signal-center/internal/metrics"
	"github.com/fundedlabs/signal-center/internal/models"
)

// pushEnvelope is one websocket frame from the signal publisher.
type pushEnvelope struct {
	Event   string            `json:"event"`
	Message models.RawMessage `json:"message"`
}

const pushEventNewSignal = "new_signal"

// runPush maintains the websocket connection, reconnecting with capped
// exponential backoff. Each new_signal frame yields exactly one incremental
// message; the full set is never re-fetched on a push.
func (f *Feed) runPush(ctx context.Context, out chan<- Event) error {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.consumePushStream(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.logger.Warn().Err(err).Str("url", f.socketURL).Msg("push feed disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (f *Feed) consumePushStream(ctx context.Context, out chan<- Event) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.socketURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.logger.Info().Str("url", f.socketURL).Msg("connected to signal publisher")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Close the connection when the consuming context is torn down so the
	// blocked ReadMessage below unblocks and no callback fires afterwards.
	readCtx, readCancel := context.WithCancel(ctx)
	defer readCancel()
	go func() {
		<-readCtx.Done()
		conn.Close()
	}()

	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					f.logger.Warn().Err(err).Msg("push feed ping failed")
					return
				}
			case <-readCtx.Done():
				return
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var env pushEnvelope
		if err := json.Unmarshal(frame, &env); err != nil {
			f.logger.Warn().Err(err).Msg("failed to decode push frame")
			continue
		}
		if env.Event != pushEventNewSignal {
			continue
		}

		msg := env.Message
		if err := f.emit(ctx, out, Event{Kind: EventMessage, Message: &msg}); err != nil {
			return err
		}
		metrics.PushEventsTotal.Inc()
	}
}
