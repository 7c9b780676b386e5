package charset

import "fmt"

var DefaultEncodings = []string{"gb2312", "gbk", "utf-8"}

// Decoder tries a fixed, ordered list of candidate encodings.
type Decoder struct {
	codecs []Codec
}

func NewDecoder(names ...string) (*Decoder, error) {
	if len(names) == 0 {
		names = DefaultEncodings
	}
	codecs := make([]Codec, 0, len(names))
	for _, name := range names {
		codec, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, codec)
	}
	return &Decoder{codecs: codecs}, nil
}

func MustNewDecoder(names ...string) *Decoder {
	decoder, err := NewDecoder(names...)
	if err != nil {
		panic(fmt.Sprintf("charset: %v", err))
	}
	return decoder
}

func (d *Decoder) Encodings() []string {
	names := make([]string, 0, len(d.codecs))
	for _, codec := range d.codecs {
		names = append(names, codec.Name())
	}
	return names
}

// Candidates decodes raw under every candidate encoding in order and returns
// the successful decodings. Encodings that do not apply are skipped, so the
// result may be empty. Identical decodings are kept.
func (d *Decoder) Candidates(raw []byte) []string {
	values := make([]string, 0, len(d.codecs))
	for _, codec := range d.codecs {
		if decoded, ok := codec.Decode(raw); ok {
			values = append(values, decoded)
		}
	}
	return values
}
