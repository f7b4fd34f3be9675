// Package mjlog 解码天凤 .mjlog 对局日志：牌编号、副露位域与逐条事件
package mjlog

import "fmt"

// TileID 牌的数字编号，合法范围 [0,135]（标准 136 张牌，mjlog 格式约定）
type TileID int

// Suit 牌的大类：万/筒/索/字
type Suit int

const (
	SuitManzu Suit = iota
	SuitPinzu
	SuitSouzu
	SuitHonor
)

var suitDesc = [...]string{"m", "p", "s", "z"}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitDesc) {
		return "?"
	}
	return suitDesc[s]
}

// Honor 字牌种类，顺序与编号布局一致：东南西北白发中
type Honor int

const (
	HonorEast Honor = iota
	HonorSouth
	HonorWest
	HonorNorth
	HonorWhite
	HonorGreen
	HonorRed
)

var honorDesc = [...]string{"East", "South", "West", "North", "White", "Green", "Red"}

func (h Honor) String() string {
	if h < 0 || int(h) >= len(honorDesc) {
		return "?"
	}
	return honorDesc[h]
}

// Tile 解码后的牌：数牌为 花色+点数(1..9)，字牌为 Honor
type Tile struct {
	Suit  Suit  `json:"suit"`
	Rank  int   `json:"rank,omitempty"`
	Honor Honor `json:"honor,omitempty"`
}

func (t Tile) String() string {
	if t.Suit == SuitHonor {
		return t.Honor.String()
	}
	return fmt.Sprintf("%d%s", t.Rank, t.Suit)
}

// InvalidTileError 编号越界时的类型化错误；绝不静默截断
type InvalidTileError struct {
	ID TileID
}

func (e *InvalidTileError) Error() string {
	return fmt.Sprintf("invalid tile %d", e.ID)
}

// DecodeTile 将 [0,135] 的编号解码为语义上的牌
// 每种牌有 4 张物理拷贝，低 2 位只区分拷贝、与身份无关，整除 4 丢弃
func DecodeTile(id TileID) (Tile, error) {
	switch {
	case id >= 0 && id <= 35:
		return Tile{Suit: SuitManzu, Rank: int(id)/4 + 1}, nil
	case id >= 36 && id <= 71:
		return Tile{Suit: SuitPinzu, Rank: int(id-36)/4 + 1}, nil
	case id >= 72 && id <= 107:
		return Tile{Suit: SuitSouzu, Rank: int(id-72)/4 + 1}, nil
	case id >= 108 && id <= 135:
		group := int(id-108) / 4
		if group < 0 || group > 6 {
			// 范围判断已保证到不了这里，保留显式检查兜底
			return Tile{}, &InvalidTileError{ID: id}
		}
		return Tile{Suit: SuitHonor, Honor: Honor(group)}, nil
	default:
		return Tile{}, &InvalidTileError{ID: id}
	}
}
