package spectate

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/joycexyl/valentine-pacman/internal/session"
)

// DefaultInterval caps spectator updates at about 30 per second.
const DefaultInterval = time.Second / 30

type broadcaster interface {
	Broadcast(msg []byte)
}

// Publisher encodes snapshots on the caller's goroutine and hands them to a
// hub, skipping frames that arrive faster than the interval. A change of
// session state is always sent.
type Publisher struct {
	out      broadcaster
	id       string
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	last      time.Time
	lastState session.State
	sent      bool
}

func NewPublisher(hub *Hub, sessionID string, log zerolog.Logger) *Publisher {
	return newPublisher(hub, sessionID, DefaultInterval, log)
}

func newPublisher(out broadcaster, id string, interval time.Duration, log zerolog.Logger) *Publisher {
	return &Publisher{out: out, id: id, interval: interval, log: log, now: time.Now}
}

func (p *Publisher) Publish(snap session.Snapshot, board session.Board) {
	t := p.now()
	if p.sent && snap.State == p.lastState && t.Sub(p.last) < p.interval {
		return
	}
	data, err := Encode(NewFrame(p.id, snap, board))
	if err != nil {
		p.log.Warn().Err(err).Msg("encode spectator frame")
		return
	}
	p.out.Broadcast(data)
	p.last, p.lastState, p.sent = t, snap.State, true
}
