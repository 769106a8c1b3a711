package stream

import (
	"strconv"
	"sync"
	"time"
)

const defaultBacklog = 256

// Event is one entry in a game's live feed. IDs increase by one per buffer
// and are what clients echo back as Last-Event-ID.
type Event struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data"`
}

// Buffer keeps a bounded backlog of events for one game and fans new events
// out to subscribers. Slow subscribers miss events rather than block Append.
type Buffer struct {
	mu      sync.Mutex
	gameID  string
	seq     int64
	backlog int
	events  []Event
	subs    map[chan Event]struct{}
	closed  bool
}

func NewBuffer(gameID string, backlog int) *Buffer {
	if backlog <= 0 {
		backlog = defaultBacklog
	}
	return &Buffer{
		gameID:  gameID,
		backlog: backlog,
		subs:    map[chan Event]struct{}{},
	}
}

func (b *Buffer) Append(eventType string, data any) Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Event{}
	}
	b.seq++
	ev := Event{
		ID:       strconv.FormatInt(b.seq, 10),
		Type:     eventType,
		GameID:   b.gameID,
		ServerTS: time.Now().UnixMilli(),
		Data:     data,
	}
	b.events = append(b.events, ev)
	if over := len(b.events) - b.backlog; over > 0 {
		b.events = b.events[over:]
	}
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			metricDropped.Add(1)
		}
	}
	return ev
}

// Since returns buffered events after lastID. An empty or unparsable id
// replays the whole backlog.
func (b *Buffer) Since(lastID string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	last, err := strconv.ParseInt(lastID, 10, 64)
	if lastID == "" || err != nil {
		last = 0
	}
	out := make([]Event, 0, len(b.events))
	for _, ev := range b.events {
		id, _ := strconv.ParseInt(ev.ID, 10, 64)
		if id > last {
			out = append(out, ev)
		}
	}
	return out
}

// Subscribe registers a listener. The channel is closed by Unsubscribe or
// when the buffer closes.
func (b *Buffer) Subscribe() chan Event {
	ch := make(chan Event, 32)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	metricSubscribers.Add(1)
	return ch
}

func (b *Buffer) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
		metricSubscribers.Add(-1)
	}
}

func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
		delete(b.subs, ch)
		metricSubscribers.Add(-1)
	}
}

// After reports whether event id comes after last. Ids are decimal sequence
// numbers without padding.
func After(id, last string) bool {
	if len(id) != len(last) {
		return len(id) > len(last)
	}
	return id > last
}
