package server

import (
	"sync/atomic"
)

// SessionMetrics 记录一次会话的解码与回放指标（用于监控与调试）
type SessionMetrics struct {
	Records      int64 // 读入的原始记录数
	Events       int64 // 解码出的事件数（含 Ignored）
	Ignored      int64 // 其中被忽略的记录数
	AttrErrors   int64 // 必需属性缺失/非法而被跳过的记录数
	InvalidTiles int64 // 事件中携带的非法牌编号数
	UnknownMelds int64 // 解码为 Unknown 的副露数
	Broadcasts   int64 // 已广播的消息数
	DroppedSends int64 // 因客户端队列满被丢弃的消息数
}

func (m *SessionMetrics) AddRecords(n int64) { atomic.AddInt64(&m.Records, n) }
func (m *SessionMetrics) AddEvents(n int64)  { atomic.AddInt64(&m.Events, n) }
func (m *SessionMetrics) IncIgnored()        { atomic.AddInt64(&m.Ignored, 1) }
func (m *SessionMetrics) IncAttrError()      { atomic.AddInt64(&m.AttrErrors, 1) }
func (m *SessionMetrics) IncInvalidTile()    { atomic.AddInt64(&m.InvalidTiles, 1) }
func (m *SessionMetrics) IncUnknownMeld()    { atomic.AddInt64(&m.UnknownMelds, 1) }
func (m *SessionMetrics) IncBroadcast()      { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *SessionMetrics) IncDroppedSend()    { atomic.AddInt64(&m.DroppedSends, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *SessionMetrics) Snapshot() map[string]any {
	return map[string]any{
		"records":       atomic.LoadInt64(&m.Records),
		"events":        atomic.LoadInt64(&m.Events),
		"ignored":       atomic.LoadInt64(&m.Ignored),
		"attr_errors":   atomic.LoadInt64(&m.AttrErrors),
		"invalid_tiles": atomic.LoadInt64(&m.InvalidTiles),
		"unknown_melds": atomic.LoadInt64(&m.UnknownMelds),
		"broadcasts":    atomic.LoadInt64(&m.Broadcasts),
		"dropped_sends": atomic.LoadInt64(&m.DroppedSends),
	}
}
