// Package trace 把解码后的事件渲染为文本轨迹（外部表现层，不属于解码核心）
package trace

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuliaset/mjlog-Parser/mjlog"
)

// TileText 渲染单张牌。编号非法时退化为占位文本——
// 占位是渲染层的决定，解码层只给出类型化错误
func TileText(id mjlog.TileID) string {
	t, err := mjlog.DecodeTile(id)
	if err != nil {
		return fmt.Sprintf("[Invalid tile %d]", id)
	}
	return mjlog.Glyph(t)
}

func tilesText(ids []mjlog.TileID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, TileText(id))
	}
	return strings.Join(parts, " ")
}

func seatText(s mjlog.Seat) string {
	if s == mjlog.SeatUnknown {
		return "?"
	}
	return strconv.Itoa(int(s))
}

// Line 将一个事件渲染为一行轨迹文本；无输出的事件（Ignored、不带牌的摸/切）返回 false
func Line(ev mjlog.Event) (string, bool) {
	switch ev.Kind {
	case mjlog.EventDraw:
		if !ev.HasTile {
			return "", false
		}
		return fmt.Sprintf("Seat %d draws %s", ev.Seat, TileText(ev.Tile)), true
	case mjlog.EventDiscard:
		if !ev.HasTile {
			return "", false
		}
		return fmt.Sprintf("Seat %d discards %s", ev.Seat, TileText(ev.Tile)), true
	case mjlog.EventCall:
		if ev.Meld == nil {
			return "", false
		}
		return fmt.Sprintf("Seat %d calls %s from seat %d, tiles: %s",
			ev.Seat, ev.Meld.Type, ev.Meld.From, tilesText(ev.Meld.Tiles)), true
	case mjlog.EventWin:
		return fmt.Sprintf("Seat %s wins from seat %s with: %s",
			seatText(ev.Seat), seatText(ev.From), tilesText(ev.Tiles)), true
	case mjlog.EventRoundStart:
		return "=== New Round (INIT) ===", true
	}
	return "", false
}

// Write 把整段事件序列按原始顺序写成文本轨迹
func Write(w io.Writer, events []mjlog.Event) error {
	for _, ev := range events {
		line, ok := Line(ev)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
