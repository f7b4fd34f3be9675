package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yuliaset/mjlog-Parser/mjlog"
)

// DefaultSessionID 启动时从命令行文件创建的会话使用固定 ID，方便直连
const DefaultSessionID = "default"

// SessionManager 管理回放会话的生命周期
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*ReplaySession

	defaultInterval time.Duration
	autoplay        bool
}

var (
	defaultManager *SessionManager
	once           sync.Once
)

// GetSessionManager 单例会话管理器
func GetSessionManager() *SessionManager {
	once.Do(func() {
		defaultManager = &SessionManager{
			sessions:        make(map[string]*ReplaySession),
			defaultInterval: DefaultReplayInterval,
			autoplay:        true,
		}
	})
	return defaultManager
}

// SetDefaults 更新新建会话的回放默认值（配置热更新入口，已有会话不受影响）
func (m *SessionManager) SetDefaults(interval time.Duration, autoplay bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interval >= minReplayInterval {
		m.defaultInterval = interval
	}
	m.autoplay = autoplay
}

// CreateSession 解码一批原始记录并建立回放会话。id 为空时分配 uuid。
// 记录级的契约错误（缺必需属性等）逐条告警并跳过，不影响其余事件
func (m *SessionManager) CreateSession(id, name string, records []mjlog.Record) *ReplaySession {
	events, errs := mjlog.ClassifyAll(records)
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	s := NewReplaySession(id, name, events, m.defaultInterval, m.autoplay)
	m.sessions[id] = s
	m.mu.Unlock()

	s.metrics.AddRecords(int64(len(records)))
	for _, err := range errs {
		s.metrics.IncAttrError()
		Log.Warnf("session %s: skip record: %v", id, err)
	}
	s.StartReplay()
	Log.Infof("session %s (%s): %d records -> %d events, %d skipped",
		id, name, len(records), len(events), len(errs))
	return s
}

// Get 按 ID 取会话
func (m *SessionManager) Get(id string) (*ReplaySession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List 所有会话的状态快照
func (m *SessionManager) List() []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]map[string]any, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Snapshot())
	}
	return out
}
