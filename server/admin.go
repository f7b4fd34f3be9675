package server

import (
	"encoding/json"
	"net/http"

	"github.com/yuliaset/mjlog-Parser/mjlog"
)

func sessionFromQuery(w http.ResponseWriter, r *http.Request) (*ReplaySession, bool) {
	id := r.URL.Query().Get("session")
	if id == "" {
		id = DefaultSessionID
	}
	sess, ok := GetSessionManager().Get(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// HandleAdminConfig 提供会话回放参数的读取与更新
// GET  /admin/config?session=default  返回当前回放状态
// POST /admin/config?session=default  以 JSON 载荷更新部分字段
func HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	type cfg struct {
		IntervalMs *int  `json:"intervalMs,omitempty"`
		Paused     *bool `json:"paused,omitempty"`
		Restart    *bool `json:"restart,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sess.Snapshot())
		return
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		// 变更一律经控制通道送入回放线程，不直接改会话状态
		if body.IntervalMs != nil {
			sess.OnCtrl(Ctrl{Op: CtrlSpeed, IntervalMs: *body.IntervalMs})
		}
		if body.Paused != nil {
			if *body.Paused {
				sess.OnCtrl(Ctrl{Op: CtrlPause})
			} else {
				sess.OnCtrl(Ctrl{Op: CtrlResume})
			}
		}
		if body.Restart != nil && *body.Restart {
			sess.OnCtrl(Ctrl{Op: CtrlRestart})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config updated: session=%s body=%+v", sess.ID, body)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleAdminLoad 从服务器本地路径装载一份日志并建立新会话
// POST /admin/load  {"path":"./sample.mjlog","name":"east-1"}
func HandleAdminLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Path string `json:"path"`
		Name string `json:"name,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	records, err := mjlog.ReadLog(body.Path)
	if err != nil {
		Log.Warnf("load %s: %v", body.Path, err)
		http.Error(w, "cannot read log", http.StatusUnprocessableEntity)
		return
	}
	name := body.Name
	if name == "" {
		name = body.Path
	}
	sess := GetSessionManager().CreateSession("", name, records)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session": sess.ID,
		"events":  sess.Total(),
	})
}

// HandleSessions 列出全部会话
// GET /sessions
func HandleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sessions": GetSessionManager().List(),
	})
}

// HandleMetrics 输出指定会话的运行指标
// GET /metrics?session=default
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}
	payload := map[string]any{
		"session": sess.ID,
		"state":   sess.Snapshot(),
		"metrics": sess.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
