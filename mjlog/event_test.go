package mjlog

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassifyDrawDiscard(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want Event
	}{
		{"T135 draw seat 0", "T135", Event{Kind: EventDraw, Seat: 0, Tile: 135, HasTile: true, From: SeatUnknown}},
		{"U12 draw seat 1", "U12", Event{Kind: EventDraw, Seat: 1, Tile: 12, HasTile: true, From: SeatUnknown}},
		{"V0 draw seat 2", "V0", Event{Kind: EventDraw, Seat: 2, Tile: 0, HasTile: true, From: SeatUnknown}},
		{"W77 draw seat 3", "W77", Event{Kind: EventDraw, Seat: 3, Tile: 77, HasTile: true, From: SeatUnknown}},
		{"D0 discard seat 0", "D0", Event{Kind: EventDiscard, Seat: 0, Tile: 0, HasTile: true, From: SeatUnknown}},
		{"E52 discard seat 1", "E52", Event{Kind: EventDiscard, Seat: 1, Tile: 52, HasTile: true, From: SeatUnknown}},
		{"F107 discard seat 2", "F107", Event{Kind: EventDiscard, Seat: 2, Tile: 107, HasTile: true, From: SeatUnknown}},
		{"G33 discard seat 3", "G33", Event{Kind: EventDiscard, Seat: 3, Tile: 33, HasTile: true, From: SeatUnknown}},
		// 后缀非纯数字：降级为不带牌的事件，不报错
		{"UN matches draw marker without tile", "UN", Event{Kind: EventDraw, Seat: 1, From: SeatUnknown}},
		{"DORA matches discard marker without tile", "DORA", Event{Kind: EventDiscard, Seat: 0, From: SeatUnknown}},
		{"bare T without tile", "T", Event{Kind: EventDraw, Seat: 0, From: SeatUnknown}},
		{"signed suffix is not numeric", "T+5", Event{Kind: EventDraw, Seat: 0, From: SeatUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.tag, nil)
			if err != nil {
				t.Fatalf("Classify(%q): unexpected error %v", tt.tag, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestClassifyCall(t *testing.T) {
	// chi：类型码 0，base=4，偏移 0；叫牌者 2 → 来源 (2+0+1)%4 = 3
	packed := uint32(4 << 10)
	got, err := Classify("N", map[string]string{"who": "2", "m": "4096"})
	if err != nil {
		t.Fatalf("Classify(N): %v", err)
	}
	if got.Kind != EventCall || got.Seat != 2 {
		t.Fatalf("Classify(N) = %+v, want call by seat 2", got)
	}
	want := DecodeMeld(packed, 2)
	if got.Meld == nil || !reflect.DeepEqual(*got.Meld, want) {
		t.Errorf("meld = %+v, want %+v", got.Meld, want)
	}
	if want.Type != MeldChi || !reflect.DeepEqual(want.Tiles, []TileID{4, 5, 6}) {
		t.Errorf("DecodeMeld(4096, 2) = %+v, want chi [4 5 6]", want)
	}
}

func TestClassifyCallContractErrors(t *testing.T) {
	tests := []struct {
		name    string
		attrs   map[string]string
		missing string
		invalid string
	}{
		{"no who", map[string]string{"m": "4096"}, "who", ""},
		{"no m", map[string]string{"who": "2"}, "m", ""},
		{"no attrs at all", nil, "who", ""},
		{"who not integer", map[string]string{"who": "two", "m": "4096"}, "", "who"},
		{"m not integer", map[string]string{"who": "2", "m": "xyz"}, "", "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify("N", tt.attrs)
			if err == nil {
				t.Fatal("expected contract error")
			}
			if tt.missing != "" {
				var me *MissingAttrError
				if !errors.As(err, &me) {
					t.Fatalf("error %T is not *MissingAttrError", err)
				}
				if me.Tag != "N" || me.Attr != tt.missing {
					t.Errorf("error = %+v, want tag N attr %q", me, tt.missing)
				}
			}
			if tt.invalid != "" {
				var ie *InvalidAttrError
				if !errors.As(err, &ie) {
					t.Fatalf("error %T is not *InvalidAttrError", err)
				}
				if ie.Attr != tt.invalid {
					t.Errorf("error = %+v, want attr %q", ie, tt.invalid)
				}
			}
		})
	}
}

func TestClassifyWin(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  Event
	}{
		{
			"full win record",
			map[string]string{"who": "1", "fromWho": "3", "hai": "0,4,8"},
			Event{Kind: EventWin, Seat: 1, From: 3, Tiles: []TileID{0, 4, 8}},
		},
		{
			"tsumo-like same seats",
			map[string]string{"who": "0", "fromWho": "0", "hai": "135"},
			Event{Kind: EventWin, Seat: 0, From: 0, Tiles: []TileID{135}},
		},
		{
			"missing seats fall back to unknown",
			map[string]string{"hai": "0"},
			Event{Kind: EventWin, Seat: SeatUnknown, From: SeatUnknown, Tiles: []TileID{0}},
		},
		{
			"out of range seat falls back to unknown",
			map[string]string{"who": "7", "fromWho": "-2", "hai": ""},
			Event{Kind: EventWin, Seat: SeatUnknown, From: SeatUnknown},
		},
		{
			"absent hai is empty list",
			map[string]string{"who": "2", "fromWho": "2"},
			Event{Kind: EventWin, Seat: 2, From: 2},
		},
		{
			// 单个坏项占位为 -1，不丢弃整个事件
			"bad tile entry becomes placeholder",
			map[string]string{"who": "1", "fromWho": "3", "hai": "1,x,3"},
			Event{Kind: EventWin, Seat: 1, From: 3, Tiles: []TileID{1, -1, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify("AGARI", tt.attrs)
			if err != nil {
				t.Fatalf("Classify(AGARI): %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(AGARI, %v) = %+v, want %+v", tt.attrs, got, tt.want)
			}
		})
	}
}

func TestClassifyOtherTags(t *testing.T) {
	tests := []struct {
		tag  string
		want EventKind
	}{
		{"INIT", EventRoundStart},
		{"SHUFFLE", EventIgnored},
		{"RYUUKYOKU", EventIgnored},
		{"mjloggm", EventIgnored},
		{"", EventIgnored},
	}
	for _, tt := range tests {
		got, err := Classify(tt.tag, nil)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.tag, err)
		}
		if got.Kind != tt.want {
			t.Errorf("Classify(%q).Kind = %v, want %v", tt.tag, got.Kind, tt.want)
		}
	}
}

// 纯函数：同一条记录分类两次结果必须一致
func TestClassifyIdempotent(t *testing.T) {
	attrs := map[string]string{"who": "2", "m": "18511"}
	first, err := Classify("N", attrs)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Classify("N", attrs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs differ: %+v vs %+v", first, second)
	}
}

func TestClassifyAll(t *testing.T) {
	records := []Record{
		{Tag: "INIT"},
		{Tag: "T135"},
		{Tag: "N", Attrs: map[string]string{"who": "2"}}, // 缺 m，应跳过并报告
		{Tag: "D0"},
		{Tag: "AGARI", Attrs: map[string]string{"who": "1", "fromWho": "3", "hai": "0,4"}},
	}
	events, errs := ClassifyAll(records)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	var me *MissingAttrError
	if !errors.As(errs[0], &me) || me.Attr != "m" {
		t.Errorf("error = %v, want missing attr m", errs[0])
	}
	wantKinds := []EventKind{EventRoundStart, EventDraw, EventDiscard, EventWin}
	for i, k := range wantKinds {
		if events[i].Kind != k {
			t.Errorf("event %d kind = %v, want %v", i, events[i].Kind, k)
		}
	}
}
