package resolve

import (
	"fmt"
	"sort"

	"github.com/jaa/id3fix/internal/charset"
)

// Correction is one tag value that should be rewritten. Value lists every
// candidate decoding in the order it was produced; Preferred is the one that
// would be written back.
type Correction struct {
	Value     []string `json:"value"`
	Preferred string   `json:"preferred"`
}

type Engine struct {
	decoder *charset.Decoder
}

func New(decoder *charset.Decoder) *Engine {
	if decoder == nil {
		decoder = charset.MustNewDecoder()
	}
	return &Engine{decoder: decoder}
}

func (e *Engine) Encodings() []string {
	return e.decoder.Encodings()
}

// Resolve reports whether value needs a correction. A correction is emitted
// only when the preferred candidate differs from the last candidate, which
// corresponds to the last (most trusted) encoding in the candidate list.
func (e *Engine) Resolve(value string) (Correction, bool) {
	candidates := e.Candidates(value)
	preferred, ok := Preferred(candidates)
	if !ok {
		return Correction{}, false
	}
	if preferred == candidates[len(candidates)-1] {
		return Correction{}, false
	}
	return Correction{Value: candidates, Preferred: preferred}, true
}

func (e *Engine) Candidates(value string) []string {
	candidates := []string{}
	for _, raw := range Reinterpret(value) {
		candidates = append(candidates, e.decoder.Candidates(raw)...)
	}
	return candidates
}

// ResolveValues resolves every value of one tag key and keeps the
// corrections in value order.
func (e *Engine) ResolveValues(values []string) []Correction {
	corrections := []Correction{}
	for _, value := range values {
		if correction, ok := e.Resolve(value); ok {
			corrections = append(corrections, correction)
		}
	}
	return corrections
}

// Reinterpret reconstructs the byte sequences the stored text may have come
// from. Pure ASCII text yields its own bytes. Anything else yields the
// byte-preserving form first and the UTF-8 form second.
func Reinterpret(value string) [][]byte {
	if isASCII(value) {
		return [][]byte{[]byte(value)}
	}
	return [][]byte{rawBytes(value), []byte(value)}
}

// Preferred picks the shortest candidate by UTF-8 byte length. Ties keep the
// earliest candidate. This is a heuristic: a wrong decoding that happens to
// be shorter wins too.
func Preferred(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	ranked := append([]string(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i]) < len(ranked[j])
	})
	return ranked[0], true
}

func isASCII(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] >= 0x80 {
			return false
		}
	}
	return true
}

// rawBytes maps code points up to U+00FF to the byte of the same value and
// escapes anything larger as \uXXXX or \UXXXXXXXX.
func rawBytes(value string) []byte {
	out := make([]byte, 0, len(value))
	for _, r := range value {
		switch {
		case r <= 0xFF:
			out = append(out, byte(r))
		case r <= 0xFFFF:
			out = append(out, fmt.Sprintf(`\u%04x`, r)...)
		default:
			out = append(out, fmt.Sprintf(`\U%08x`, r)...)
		}
	}
	return out
}
