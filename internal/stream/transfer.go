package stream

import "sync/atomic"

// State: фаза передачи.
type State int32

const (
	Producing State = iota
	Draining
	Terminated
)

func (s State) String() string {
	switch s {
	case Producing:
		return "producing"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Transfer хранит счётчики одной передачи. Живёт ровно один запрос.
type Transfer struct {
	sent      atomic.Int64
	nextChunk atomic.Int64
	state     atomic.Int32
	closed    atomic.Bool
}

// NewTransfer создаёт передачу в состоянии Producing.
func NewTransfer() *Transfer {
	return &Transfer{}
}

// Sent: сколько байт уже отдано в Sink.
func (t *Transfer) Sent() int64 { return t.sent.Load() }

// NextChunk: индекс следующего чанка, он же количество отданных чанков.
func (t *Transfer) NextChunk() int { return int(t.nextChunk.Load()) }

// State возвращает текущую фазу.
func (t *Transfer) State() State { return State(t.state.Load()) }

// Closed сообщает, что передача отменена. Флаг ставится один раз и не снимается.
func (t *Transfer) Closed() bool { return t.closed.Load() }

// Close помечает передачу отменённой.
func (t *Transfer) Close() { t.closed.Store(true) }

func (t *Transfer) setState(s State) {
	// Terminated: конечное состояние.
	for {
		cur := t.state.Load()
		if State(cur) == Terminated {
			return
		}
		if t.state.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}

func (t *Transfer) advance(n int) {
	t.sent.Add(int64(n))
	t.nextChunk.Add(1)
}
