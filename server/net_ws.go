package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ClientConn 负责发送（写）数据到观战客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃并返回 false）
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		// 为了不阻塞回放循环，丢弃而不是等待
		return false
	}
}

// Close 关闭底层连接与发送队列
func (c *ClientConn) Close() {
	if c.send != nil {
		// 关闭发送通道以结束写协程
		close(c.send)
		c.send = nil
	}
	_ = c.ws.Close()
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 读取客户端的控制消息，转换为 Ctrl 注入会话
func (c *ClientConn) readPump(sess *ReplaySession) {
	defer c.ws.Close()
	// 读泵退出时，通知会话在回放线程中移除该客户端
	defer sess.RequestLeave(c)
	c.ws.SetReadLimit(1 << 20) // 1MB
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var cm CtrlMessage
		if err := json.Unmarshal(payload, &cm); err != nil {
			continue
		}
		if strings.ToLower(cm.Type) != "ctrl" {
			continue
		}
		var ctrl Ctrl
		switch strings.ToLower(cm.Command) {
		case "pause":
			ctrl = Ctrl{Op: CtrlPause}
		case "resume":
			ctrl = Ctrl{Op: CtrlResume}
		case "step":
			ctrl = Ctrl{Op: CtrlStep}
		case "restart":
			ctrl = Ctrl{Op: CtrlRestart}
		case "speed":
			ctrl = Ctrl{Op: CtrlSpeed, IntervalMs: cm.IntervalMs}
		default:
			continue
		}
		sess.OnCtrl(ctrl)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 本地查看器：允许所有来源（对外部署需收紧）
		return true
	},
}

// HandleWS WebSocket 接入：?session=default
func HandleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	sess, ok := GetSessionManager().Get(sessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws)
	sess.Join(client)

	go client.writePump()
	go client.readPump(sess)
}
