package server

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/yuliaset/mjlog-Parser/mjlog"
	"github.com/yuliaset/mjlog-Parser/trace"
)

// ReplaySession 一份日志的回放会话：解码结果构造后只读，
// 回放进度与客户端集合全部由单一回放 goroutine 拥有，外部通过通道交互
type ReplaySession struct {
	ID   string
	Name string

	events []mjlog.Event
	lines  []string // 与 events 对齐的预渲染轨迹行，空串表示该事件无文本输出

	clients   map[*ClientConn]struct{}
	joinChan  chan *ClientConn
	leaveChan chan *ClientConn
	ctrlChan  chan Ctrl

	cursor   int
	paused   bool
	autoplay bool
	interval time.Duration

	// 镜像值：回放 goroutine 写入，HTTP 端只读，避免跨线程读内部状态
	cursorMirror   int64
	pausedMirror   int64
	intervalMirror int64 // 毫秒

	metrics       *SessionMetrics
	replayStarted bool
}

// NewReplaySession 构造会话：预渲染轨迹行并统计解码质量指标
func NewReplaySession(id, name string, events []mjlog.Event, interval time.Duration, autoplay bool) *ReplaySession {
	s := &ReplaySession{
		ID:        id,
		Name:      name,
		events:    events,
		lines:     make([]string, len(events)),
		clients:   make(map[*ClientConn]struct{}),
		joinChan:  make(chan *ClientConn, 16),
		leaveChan: make(chan *ClientConn, 64),
		ctrlChan:  make(chan Ctrl, 64), // 足够缓冲，避免客户端读协程阻塞回放
		paused:    !autoplay,
		autoplay:  autoplay,
		interval:  interval,
		metrics:   &SessionMetrics{},
	}
	for i, ev := range events {
		if line, ok := trace.Line(ev); ok {
			s.lines[i] = line
		}
		s.countEvent(ev)
	}
	s.metrics.AddEvents(int64(len(events)))
	s.mirrorState()
	return s
}

// countEvent 统计单个事件的解码质量指标
func (s *ReplaySession) countEvent(ev mjlog.Event) {
	switch ev.Kind {
	case mjlog.EventIgnored:
		s.metrics.IncIgnored()
	case mjlog.EventDraw, mjlog.EventDiscard:
		if ev.HasTile {
			s.countTile(ev.Tile)
		}
	case mjlog.EventCall:
		if ev.Meld != nil {
			if ev.Meld.Type == mjlog.MeldUnknown {
				s.metrics.IncUnknownMeld()
			}
			for _, id := range ev.Meld.Tiles {
				s.countTile(id)
			}
		}
	case mjlog.EventWin:
		for _, id := range ev.Tiles {
			s.countTile(id)
		}
	}
}

func (s *ReplaySession) countTile(id mjlog.TileID) {
	if _, err := mjlog.DecodeTile(id); err != nil {
		s.metrics.IncInvalidTile()
	}
}

// Join 把客户端交给回放 goroutine 接管（阻塞式，通道有缓冲）
func (s *ReplaySession) Join(c *ClientConn) {
	s.joinChan <- c
}

// RequestLeave 请求在回放 goroutine 中移除客户端，避免并发改动会话状态
func (s *ReplaySession) RequestLeave(c *ClientConn) {
	s.leaveChan <- c
}

// OnCtrl 入站控制指令（不立即生效），等回放循环统一处理
func (s *ReplaySession) OnCtrl(c Ctrl) {
	// 不阻塞：指令拥塞时丢弃，保证回放循环准时
	select {
	case s.ctrlChan <- c:
	default:
	}
}

// Metrics 会话指标
func (s *ReplaySession) Metrics() *SessionMetrics {
	return s.metrics
}

// Total 事件总数
func (s *ReplaySession) Total() int {
	return len(s.events)
}

// Snapshot 返回回放状态的只读视图（读镜像值，可从任意 goroutine 调用）
func (s *ReplaySession) Snapshot() map[string]any {
	return map[string]any{
		"id":          s.ID,
		"name":        s.Name,
		"total":       len(s.events),
		"cursor":      atomic.LoadInt64(&s.cursorMirror),
		"paused":      atomic.LoadInt64(&s.pausedMirror) == 1,
		"interval_ms": atomic.LoadInt64(&s.intervalMirror),
	}
}

func (s *ReplaySession) mirrorState() {
	atomic.StoreInt64(&s.cursorMirror, int64(s.cursor))
	var p int64
	if s.paused {
		p = 1
	}
	atomic.StoreInt64(&s.pausedMirror, p)
	atomic.StoreInt64(&s.intervalMirror, s.interval.Milliseconds())
}

type eventMessage struct {
	Type  string      `json:"type"`
	Seq   int         `json:"seq"`
	Line  string      `json:"line,omitempty"`
	Event mjlog.Event `json:"event"`
}

type sessionMessage struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Seq    int    `json:"seq"`
	Paused bool   `json:"paused"`
}

type endMessage struct {
	Type string `json:"type"`
	Seq  int    `json:"seq"`
}

// sendHello 给新接入的客户端发会话概况
func (s *ReplaySession) sendHello(c *ClientConn) {
	b, _ := json.Marshal(sessionMessage{
		Type:   "session",
		ID:     s.ID,
		Name:   s.Name,
		Total:  len(s.events),
		Seq:    s.cursor,
		Paused: s.paused,
	})
	s.sendTo(c, b)
}

// stepOnce 推进一个事件并广播；走到末尾时广播结束并自动暂停
func (s *ReplaySession) stepOnce() {
	if s.cursor >= len(s.events) {
		return
	}
	i := s.cursor
	b, _ := json.Marshal(eventMessage{
		Type:  "event",
		Seq:   i,
		Line:  s.lines[i],
		Event: s.events[i],
	})
	s.broadcast(b)
	s.cursor++
	if s.cursor >= len(s.events) {
		s.paused = true
		eb, _ := json.Marshal(endMessage{Type: "end", Seq: s.cursor})
		s.broadcast(eb)
	}
}

// broadcast 把消息压入所有客户端的发送队列
func (s *ReplaySession) broadcast(b []byte) {
	for c := range s.clients {
		s.sendTo(c, b)
	}
	s.metrics.IncBroadcast()
}

func (s *ReplaySession) sendTo(c *ClientConn, b []byte) {
	if !c.Enqueue(b) {
		s.metrics.IncDroppedSend()
	}
}
