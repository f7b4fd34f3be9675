package server

import "time"

const (
	// DefaultReplayInterval 缺省的回放步进间隔
	DefaultReplayInterval = 200 * time.Millisecond
	// minReplayInterval 步进间隔下限，防止恶意 speed 指令把循环打满
	minReplayInterval = 10 * time.Millisecond
)

// StartReplay 启动回放循环（单 goroutine 拥有会话状态）
func (s *ReplaySession) StartReplay() {
	if s.replayStarted {
		return
	}
	s.replayStarted = true
	go s.loop()
}

func (s *ReplaySession) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		// 核心循环：接入/离开 → 控制指令 → 定时步进
		select {
		case c := <-s.joinChan:
			s.clients[c] = struct{}{}
			s.sendHello(c)
		case c := <-s.leaveChan:
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				c.Close()
			}
		case ctrl := <-s.ctrlChan:
			s.applyCtrl(ctrl, ticker)
		case <-ticker.C:
			if !s.paused {
				s.stepOnce()
			}
		}
		s.mirrorState()
	}
}

// applyCtrl 在回放线程内执行一条控制指令
func (s *ReplaySession) applyCtrl(c Ctrl, ticker *time.Ticker) {
	switch c.Op {
	case CtrlPause:
		s.paused = true
	case CtrlResume:
		if s.cursor < len(s.events) {
			s.paused = false
		}
	case CtrlStep:
		s.stepOnce()
	case CtrlRestart:
		s.cursor = 0
		s.paused = !s.autoplay
	case CtrlSpeed:
		d := time.Duration(c.IntervalMs) * time.Millisecond
		if d < minReplayInterval {
			d = minReplayInterval
		}
		s.interval = d
		ticker.Reset(d)
	}
}
