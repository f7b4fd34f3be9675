package mjlog

// 表现层映射：牌 → Unicode 麻将字符。与解码契约分离，方便只针对身份做测试
//   万子 🀇..🀏 (U+1F007..)
//   筒子 🀙..🀡 (U+1F019..)
//   索子 🀐..🀘 (U+1F010..)
//   字牌 东南西北白发中

var honorGlyphs = [...]string{"🀀", "🀁", "🀂", "🀃", "🀆", "🀅", "🀄"}

// Glyph 返回牌的 Unicode 字符；入参需为 DecodeTile 的合法产物
func Glyph(t Tile) string {
	switch t.Suit {
	case SuitManzu:
		return string(rune(0x1F007 + t.Rank - 1))
	case SuitPinzu:
		return string(rune(0x1F019 + t.Rank - 1))
	case SuitSouzu:
		return string(rune(0x1F010 + t.Rank - 1))
	default:
		if t.Honor < 0 || int(t.Honor) >= len(honorGlyphs) {
			return "?"
		}
		return honorGlyphs[t.Honor]
	}
}
