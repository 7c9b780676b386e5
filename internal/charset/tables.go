package charset

import "sort"

type codeRange struct {
	lo, hi uint16
}

// gbkUnassigned lists the two-byte codes inside the GBK lead/trail space that
// have no mapping in the CP936 table. x/text decodes most of them to
// private-use code points or to later GB18030 additions.
var gbkUnassigned = []codeRange{
	{0xA140, 0xA17E},
	{0xA180, 0xA1A0},
	{0xA240, 0xA27E},
	{0xA280, 0xA2A0},
	{0xA2AB, 0xA2B0},
	{0xA2E3, 0xA2E4},
	{0xA2EF, 0xA2F0},
	{0xA2FD, 0xA2FE},
	{0xA340, 0xA37E},
	{0xA380, 0xA3A0},
	{0xA440, 0xA47E},
	{0xA480, 0xA4A0},
	{0xA4F4, 0xA4FE},
	{0xA540, 0xA57E},
	{0xA580, 0xA5A0},
	{0xA5F7, 0xA5FE},
	{0xA640, 0xA67E},
	{0xA680, 0xA6A0},
	{0xA6B9, 0xA6C0},
	{0xA6D9, 0xA6DF},
	{0xA6EC, 0xA6ED},
	{0xA6F3, 0xA6F3},
	{0xA6F6, 0xA6FE},
	{0xA740, 0xA77E},
	{0xA780, 0xA7A0},
	{0xA7C2, 0xA7D0},
	{0xA7F2, 0xA7FE},
	{0xA896, 0xA8A0},
	{0xA8BC, 0xA8BC},
	{0xA8BF, 0xA8BF},
	{0xA8C1, 0xA8C4},
	{0xA8EA, 0xA8FE},
	{0xA958, 0xA958},
	{0xA95B, 0xA95B},
	{0xA95D, 0xA95F},
	{0xA989, 0xA995},
	{0xA997, 0xA9A3},
	{0xA9F0, 0xA9FE},
	{0xAAA1, 0xAAFE},
	{0xABA1, 0xABFE},
	{0xACA1, 0xACFE},
	{0xADA1, 0xADFE},
	{0xAEA1, 0xAEFE},
	{0xAFA1, 0xAFFE},
	{0xD7FA, 0xD7FE},
	{0xF8A1, 0xF8FE},
	{0xF9A1, 0xF9FE},
	{0xFAA1, 0xFAFE},
	{0xFBA1, 0xFBFE},
	{0xFCA1, 0xFCFE},
	{0xFDA1, 0xFDFE},
	{0xFE50, 0xFE7E},
	{0xFE80, 0xFEFE},
}

// gb2312Unassigned lists EUC-CN codes that are mapped in GBK but not in
// GB2312 itself.
var gb2312Unassigned = []codeRange{
	{0xA2A1, 0xA2AA},
	{0xA6E0, 0xA6EB},
	{0xA6EE, 0xA6F2},
	{0xA6F4, 0xA6F5},
	{0xA8BB, 0xA8BB},
	{0xA8BD, 0xA8BE},
	{0xA8C0, 0xA8C0},
}

// gb2312Overrides holds the GB2312 codes whose mapping differs from GBK.
var gb2312Overrides = map[uint16]rune{
	0xA1A4: '\u30FB',
	0xA1AA: '\u2015',
}

func inRanges(code uint16, ranges []codeRange) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].hi >= code })
	return i < len(ranges) && ranges[i].lo <= code
}
