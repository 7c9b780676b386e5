package charset

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// Codec decodes a byte sequence under one character encoding. The boolean
// result is false when the bytes are not valid under that encoding.
type Codec interface {
	Name() string
	Decode(raw []byte) (string, bool)
}

type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q (supported: %s)", e.Name, strings.Join(Names(), ", "))
}

var registry = map[string]Codec{
	"gb2312":       gb2312Codec{},
	"gbk":          gbkCodec{},
	"gb18030":      textCodec{name: "gb18030", enc: simplifiedchinese.GB18030},
	"big5":         textCodec{name: "big5", enc: traditionalchinese.Big5},
	"shift_jis":    textCodec{name: "shift_jis", enc: japanese.ShiftJIS},
	"euc-jp":       textCodec{name: "euc-jp", enc: japanese.EUCJP},
	"euc-kr":       textCodec{name: "euc-kr", enc: korean.EUCKR},
	"utf-8":        utf8Codec{},
	"iso-8859-1":   textCodec{name: "iso-8859-1", enc: charmap.ISO8859_1},
	"windows-1251": textCodec{name: "windows-1251", enc: charmap.Windows1251},
}

var aliases = map[string]string{
	"gb2312":      "gb2312",
	"euccn":       "gb2312",
	"gbk":         "gbk",
	"cp936":       "gbk",
	"gb18030":     "gb18030",
	"big5":        "big5",
	"shiftjis":    "shift_jis",
	"sjis":        "shift_jis",
	"eucjp":       "euc-jp",
	"euckr":       "euc-kr",
	"utf8":        "utf-8",
	"iso88591":    "iso-8859-1",
	"latin1":      "iso-8859-1",
	"windows1251": "windows-1251",
	"cp1251":      "windows-1251",
}

// Lookup returns the codec registered for name. Names are matched without
// regard to case, dashes or underscores.
func Lookup(name string) (Codec, error) {
	canonical, ok := aliases[normalizeName(name)]
	if !ok {
		return nil, &UnsupportedEncodingError{Name: name}
	}
	return registry[canonical], nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

type utf8Codec struct{}

func (utf8Codec) Name() string { return "utf-8" }

func (utf8Codec) Decode(raw []byte) (string, bool) {
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// textCodec wraps an x/text encoding. Those decoders substitute U+FFFD for
// invalid input instead of failing, so a decode only counts when the result
// encodes back to the exact input.
type textCodec struct {
	name string
	enc  encoding.Encoding
}

func (c textCodec) Name() string { return c.name }

func (c textCodec) Decode(raw []byte) (string, bool) {
	decoded, _, err := transform.Bytes(c.enc.NewDecoder(), raw)
	if err != nil {
		return "", false
	}
	encoded, _, err := transform.Bytes(c.enc.NewEncoder(), decoded)
	if err != nil || !bytes.Equal(encoded, raw) {
		return "", false
	}
	return string(decoded), true
}

// gbkCodec is CP936: single bytes below 0x80 plus two-byte codes that are
// assigned in the CP936 table. x/text's GBK also accepts 0x80 as the euro sign
// and several GB18030 additions, which are rejected here before decoding.
type gbkCodec struct{}

func (gbkCodec) Name() string { return "gbk" }

func (gbkCodec) Decode(raw []byte) (string, bool) {
	if !isCP936(raw) {
		return "", false
	}
	return textCodec{name: "gbk", enc: simplifiedchinese.GBK}.Decode(raw)
}

func isCP936(raw []byte) bool {
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b < 0x80 {
			continue
		}
		if b == 0x80 || b == 0xFF || i+1 >= len(raw) {
			return false
		}
		trail := raw[i+1]
		if trail < 0x40 || trail == 0x7F || trail == 0xFF {
			return false
		}
		if inRanges(uint16(b)<<8|uint16(trail), gbkUnassigned) {
			return false
		}
		i++
	}
	return true
}

// gb2312Codec accepts EUC-CN byte structure only. Each code is decoded
// through the CP936 table except the few where GB2312 is unassigned or maps
// to a different character.
type gb2312Codec struct{}

func (gb2312Codec) Name() string { return "gb2312" }

func (gb2312Codec) Decode(raw []byte) (string, bool) {
	if !isEUCCN(raw) {
		return "", false
	}
	var out strings.Builder
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b < 0x80 {
			out.WriteByte(b)
			continue
		}
		code := uint16(b)<<8 | uint16(raw[i+1])
		if inRanges(code, gb2312Unassigned) {
			return "", false
		}
		if r, ok := gb2312Overrides[code]; ok {
			out.WriteRune(r)
		} else {
			decoded, ok := gbkCodec{}.Decode(raw[i : i+2])
			if !ok {
				return "", false
			}
			out.WriteString(decoded)
		}
		i++
	}
	return out.String(), true
}

func isEUCCN(raw []byte) bool {
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b < 0x80 {
			continue
		}
		if b < 0xA1 || b > 0xF7 || i+1 >= len(raw) {
			return false
		}
		trail := raw[i+1]
		if trail < 0xA1 || trail > 0xFE {
			return false
		}
		i++
	}
	return true
}
