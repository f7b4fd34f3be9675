package server

// CtrlOp 回放控制操作，由回放 goroutine 在循环内统一解释执行
type CtrlOp int

const (
	CtrlPause CtrlOp = iota
	CtrlResume
	CtrlStep
	CtrlRestart
	CtrlSpeed
)

// Ctrl 一条控制指令
type Ctrl struct {
	Op         CtrlOp
	IntervalMs int // 仅 CtrlSpeed 使用
}

// CtrlMessage 入站控制的 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"ctrl","command":"pause"}
//       {"type":"ctrl","command":"speed","intervalMs":100}
type CtrlMessage struct {
	Type       string `json:"type"`
	Command    string `json:"command"`
	IntervalMs int    `json:"intervalMs,omitempty"`
}
