package mjlog

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind 事件分类（封闭集合）
type EventKind int

const (
	EventIgnored EventKind = iota
	EventDraw
	EventDiscard
	EventCall
	EventWin
	EventRoundStart
)

var eventKindDesc = [...]string{"ignored", "draw", "discard", "call", "win", "round_start"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindDesc) {
		return "ignored"
	}
	return eventKindDesc[k]
}

// Record 上游从日志容器中提取出的一条原始记录
type Record struct {
	Tag   string
	Attrs map[string]string
}

// Event 解码后的事件值，构造后不再修改
//   Draw/Discard: Seat + Tile（HasTile 为 false 时该记录后缀非纯数字，不带牌）
//   Call:         Seat（叫牌者）+ Meld
//   Win:          Seat（和牌者）+ From（放铳者，缺省为 SeatUnknown）+ Tiles
type Event struct {
	Kind    EventKind `json:"kind"`
	Seat    Seat      `json:"seat"`
	Tile    TileID    `json:"tile"`
	HasTile bool      `json:"has_tile"`
	Meld    *Meld     `json:"meld,omitempty"`
	From    Seat      `json:"from"`
	Tiles   []TileID  `json:"tiles,omitempty"`
}

// MissingAttrError 记录缺少其标签声明为必需的属性，属于上游生产者的契约违约
type MissingAttrError struct {
	Tag  string
	Attr string
}

func (e *MissingAttrError) Error() string {
	return fmt.Sprintf("record %q missing required attribute %q", e.Tag, e.Attr)
}

// InvalidAttrError 必需属性存在但不是合法整数，同样视为契约违约
type InvalidAttrError struct {
	Tag   string
	Attr  string
	Value string
}

func (e *InvalidAttrError) Error() string {
	return fmt.Sprintf("record %q attribute %q: bad integer %q", e.Tag, e.Attr, e.Value)
}

// 固定的行动标记表：一个字母对应一个座位。这是格式契约，不是可配置策略
var drawSeats = map[byte]Seat{'T': 0, 'U': 1, 'V': 2, 'W': 3}
var discardSeats = map[byte]Seat{'D': 0, 'E': 1, 'F': 2, 'G': 3}

const (
	tagCall       = "N"
	tagWin        = "AGARI"
	tagRoundStart = "INIT"
)

// Classify 将一条原始记录分类为事件。按声明的优先级匹配，首个命中生效。
// 仅当标签声明为必需的属性缺失/非法时返回错误，由调用方决定跳过还是中止。
func Classify(tag string, attrs map[string]string) (Event, error) {
	if tag == "" {
		return Event{Kind: EventIgnored, Seat: SeatUnknown, From: SeatUnknown}, nil
	}
	if seat, ok := drawSeats[tag[0]]; ok {
		return tileAction(EventDraw, seat, tag[1:]), nil
	}
	if seat, ok := discardSeats[tag[0]]; ok {
		return tileAction(EventDiscard, seat, tag[1:]), nil
	}
	switch tag {
	case tagCall:
		seat, err := requiredInt(tag, attrs, "who")
		if err != nil {
			return Event{}, err
		}
		packed, err := requiredInt(tag, attrs, "m")
		if err != nil {
			return Event{}, err
		}
		meld := DecodeMeld(uint32(packed), Seat(seat))
		return Event{Kind: EventCall, Seat: Seat(seat), Meld: &meld, From: SeatUnknown}, nil
	case tagWin:
		return Event{
			Kind:  EventWin,
			Seat:  optionalSeat(attrs, "who"),
			From:  optionalSeat(attrs, "fromWho"),
			Tiles: parseTileList(attrs["hai"]),
		}, nil
	case tagRoundStart:
		return Event{Kind: EventRoundStart, Seat: SeatUnknown, From: SeatUnknown}, nil
	}
	return Event{Kind: EventIgnored, Seat: SeatUnknown, From: SeatUnknown}, nil
}

// ClassifyAll 依序分类全部记录。契约性错误逐条收集，不中断整体解码
func ClassifyAll(records []Record) ([]Event, []error) {
	events := make([]Event, 0, len(records))
	var errs []error
	for _, rec := range records {
		ev, err := Classify(rec.Tag, rec.Attrs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

// tileAction 组装摸/切事件。标签后缀非纯数字时事件不带牌（降级而不中断）
func tileAction(kind EventKind, seat Seat, suffix string) Event {
	ev := Event{Kind: kind, Seat: seat, From: SeatUnknown}
	if !isDigits(suffix) {
		return ev
	}
	id, err := strconv.Atoi(suffix)
	if err != nil {
		return ev
	}
	ev.Tile = TileID(id)
	ev.HasTile = true
	return ev
}

// isDigits 仅接受非空的 0-9 序列（不认正负号）
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func requiredInt(tag string, attrs map[string]string, key string) (int, error) {
	raw, ok := attrs[key]
	if !ok {
		return 0, &MissingAttrError{Tag: tag, Attr: key}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidAttrError{Tag: tag, Attr: key, Value: raw}
	}
	return n, nil
}

// optionalSeat 缺省或非法时回退到 SeatUnknown，而不是报错
func optionalSeat(attrs map[string]string, key string) Seat {
	raw, ok := attrs[key]
	if !ok {
		return SeatUnknown
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 3 {
		return SeatUnknown
	}
	return Seat(n)
}

// parseTileList 解析逗号分隔的牌编号列表；空串产出空列表。
// 非数字项用 -1 占位，让非法项在结果中可见而不是丢掉整个事件
func parseTileList(raw string) []TileID {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tiles := make([]TileID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil {
			tiles = append(tiles, TileID(-1))
			continue
		}
		tiles = append(tiles, TileID(n))
	}
	return tiles
}
