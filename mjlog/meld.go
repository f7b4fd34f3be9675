package mjlog

// Seat 座位编号 [0,3]，固定轮转顺序；SeatUnknown 表示记录中缺省
type Seat int

const SeatUnknown Seat = -1

// MeldType 副露（鸣牌）类型
type MeldType int

const (
	MeldChi MeldType = iota
	MeldPon
	MeldNuki
	MeldAnkan
	MeldKakan
	MeldMinkan
	MeldUnknown
)

var meldTypeDesc = [...]string{"CHI", "PON", "NUKI", "ANKAN", "KAKAN", "MINKAN", "UNKNOWN"}

func (t MeldType) String() string {
	if t < 0 || int(t) >= len(meldTypeDesc) {
		return "UNKNOWN"
	}
	return meldTypeDesc[t]
}

// Meld 解码后的副露：类型、被叫牌来源座位、构成牌
type Meld struct {
	Type  MeldType `json:"type"`
	From  Seat     `json:"from"`
	Tiles []TileID `json:"tiles,omitempty"`
}

// DecodeMeld 解析 m 属性的位域编码。全函数：任何输入都产出结果，
// 无法进一步细分的子类型归为 Unknown（空牌组），不报错。
// 位域布局是日志格式的固定契约，偏移与宽度不可改动：
//   bits 0..1  被叫牌来源相对叫牌者的偏移（+1 表示不可能叫自己）
//   bits 3..5  副露类型码
//   其余窗口按类型取 base，见各分支
// caller 需在 [0,3] 内。
func DecodeMeld(packed uint32, caller Seat) Meld {
	offset := packed & 0x3
	from := (caller + Seat(offset) + 1) % 4

	var typ MeldType
	switch (packed >> 3) & 0x07 {
	case 0:
		typ = MeldChi
	case 1:
		typ = MeldPon
	case 2:
		typ = MeldNuki
	case 3:
		typ = MeldAnkan
	case 4:
		typ = MeldKakan
	case 5:
		typ = MeldMinkan
	default:
		typ = MeldUnknown
	}

	var tiles []TileID
	switch typ {
	case MeldChi:
		// bits 10..15：顺子最低牌编号。注意不按 4 对齐取整——
		// 这里直接指向具体物理拷贝，与 Pon/Kan 不同，是格式本身的不对称
		base := TileID((packed >> 10) & 0x3F)
		tiles = []TileID{base, base + 1, base + 2}
	case MeldPon:
		// bits 9..15，低 2 位是拷贝序号，丢弃后得到规范编号
		base := TileID((packed>>9)&0x7F) &^ 0x3
		tiles = []TileID{base, base, base}
	case MeldAnkan, MeldKakan:
		// 加杠与暗杠共用 bits 8..15 的布局
		base := TileID((packed>>8)&0xFF) &^ 0x3
		tiles = []TileID{base, base, base, base}
	case MeldMinkan:
		base := TileID((packed>>9)&0x7F) &^ 0x3
		tiles = []TileID{base, base, base, base}
	default:
		// Nuki / Unknown 不携带牌组
	}

	return Meld{Type: typ, From: from, Tiles: tiles}
}
