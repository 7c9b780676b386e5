package resolve

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/jaa/id3fix/internal/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// mojibake returns text as it reads back after its GBK bytes were stored in
// a Latin-1 tag frame.
func mojibake(t *testing.T, text string) string {
	t.Helper()
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode gbk: %v", err)
	}
	latin, err := charmap.ISO8859_1.NewDecoder().Bytes(gbk)
	if err != nil {
		t.Fatalf("decode latin-1: %v", err)
	}
	return string(latin)
}

func TestPreferredPicksShortestWithStableTieBreak(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{name: "shortest", candidates: []string{"abcdef", "ab", "abc"}, want: "ab"},
		{name: "tie keeps first", candidates: []string{"xyz", "ab", "cd"}, want: "ab"},
		{name: "byte length not rune count", candidates: []string{"中", "abcd"}, want: "中"},
		{name: "multibyte longer", candidates: []string{"中文", "abcde"}, want: "abcde"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Preferred(tc.candidates)
			if !ok {
				t.Fatalf("expected a preferred value")
			}
			if got != tc.want {
				t.Fatalf("Preferred(%q) = %q, want %q", tc.candidates, got, tc.want)
			}
		})
	}

	if _, ok := Preferred(nil); ok {
		t.Fatalf("expected no preferred value for empty candidates")
	}
}

func TestPreferredDoesNotReorderInput(t *testing.T) {
	candidates := []string{"abcdef", "ab", "abc"}
	_, _ = Preferred(candidates)
	if candidates[0] != "abcdef" || candidates[1] != "ab" || candidates[2] != "abc" {
		t.Fatalf("Preferred mutated its input: %q", candidates)
	}
}

func TestReinterpretASCIIShortCircuits(t *testing.T) {
	got := Reinterpret("Hello World")
	if len(got) != 1 {
		t.Fatalf("expected one reinterpretation for ascii input, got %d", len(got))
	}
	if string(got[0]) != "Hello World" {
		t.Fatalf("unexpected ascii bytes: %q", got[0])
	}
}

func TestReinterpretNonASCIIProducesRawThenUTF8(t *testing.T) {
	value := "ÖÐ中"
	got := Reinterpret(value)
	if len(got) != 2 {
		t.Fatalf("expected two reinterpretations, got %d", len(got))
	}
	wantRaw := []byte{0xD6, 0xD0}
	wantRaw = append(wantRaw, `\u4e2d`...)
	if !bytes.Equal(got[0], wantRaw) {
		t.Fatalf("raw reinterpretation = % x, want % x", got[0], wantRaw)
	}
	if !bytes.Equal(got[1], []byte(value)) {
		t.Fatalf("utf-8 reinterpretation = % x, want % x", got[1], []byte(value))
	}
}

func TestReinterpretEscapesAstralCodePoints(t *testing.T) {
	got := Reinterpret("é🎵")
	want := append([]byte{0xE9}, `\U0001f3b5`...)
	if !bytes.Equal(got[0], want) {
		t.Fatalf("raw reinterpretation = %q, want %q", got[0], want)
	}
}

func TestResolveRecoversMisdecodedText(t *testing.T) {
	engine := New(charset.MustNewDecoder())
	garbled := mojibake(t, "中文字")
	if n := len([]rune(garbled)); n != 6 {
		t.Fatalf("expected 6 garbled characters, got %d (%q)", n, garbled)
	}

	correction, ok := engine.Resolve(garbled)
	if !ok {
		t.Fatalf("expected a correction for %q", garbled)
	}
	if correction.Preferred != "中文字" {
		t.Fatalf("preferred = %q, want %q", correction.Preferred, "中文字")
	}
	if correction.Value[0] != "中文字" {
		t.Fatalf("expected gb2312 decoding first, got %q", correction.Value)
	}
	if last := correction.Value[len(correction.Value)-1]; last != garbled {
		t.Fatalf("expected utf-8 baseline last, got %q", last)
	}
}

func TestResolveLeavesCorrectTextAlone(t *testing.T) {
	engine := New(charset.MustNewDecoder())
	for _, value := range []string{"中文字", "中文", "Hello", "", "Beyoncé", "周杰伦 - 稻香"} {
		if correction, ok := engine.Resolve(value); ok {
			t.Fatalf("Resolve(%q) proposed %+v, expected no correction", value, correction)
		}
	}
}

func TestResolveIsIdempotentOnPreferred(t *testing.T) {
	engine := New(charset.MustNewDecoder())
	for _, text := range []string{"中文", "中文字", "稻香"} {
		garbled := mojibake(t, text)
		correction, ok := engine.Resolve(garbled)
		if !ok {
			t.Fatalf("expected a correction for %q", garbled)
		}
		if again, ok := engine.Resolve(correction.Preferred); ok {
			t.Fatalf("Resolve(%q) after applying produced %+v", correction.Preferred, again)
		}
	}
}

func TestResolveASCIIEncodedBytesAreDecodedDirectly(t *testing.T) {
	engine := New(charset.MustNewDecoder())
	correction, ok := engine.Resolve("plain")
	if ok {
		t.Fatalf("unexpected correction %+v", correction)
	}
	got := engine.Candidates("plain")
	if len(got) != 3 {
		t.Fatalf("expected one candidate per encoding, got %q", got)
	}
}

func TestResolveValuesKeepsOrderAndDropsCleanValues(t *testing.T) {
	engine := New(charset.MustNewDecoder())
	values := []string{mojibake(t, "中文"), "clean", mojibake(t, "稻香")}

	corrections := engine.ResolveValues(values)
	if len(corrections) != 2 {
		t.Fatalf("expected 2 corrections, got %d: %+v", len(corrections), corrections)
	}
	if corrections[0].Preferred != "中文" || corrections[1].Preferred != "稻香" {
		t.Fatalf("unexpected preferred order: %q, %q", corrections[0].Preferred, corrections[1].Preferred)
	}
}

func TestResolveWithoutAnyCandidateReturnsNoCorrection(t *testing.T) {
	engine := New(charset.MustNewDecoder("gb2312"))
	if got := engine.Candidates("\u0080"); len(got) != 0 {
		t.Fatalf("expected no candidates, got %q", got)
	}
	if correction, ok := engine.Resolve("\u0080"); ok {
		t.Fatalf("unexpected correction %+v", correction)
	}
}

func latin1(t *testing.T, raw []byte) string {
	t.Helper()
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		t.Fatalf("decode latin-1: %v", err)
	}
	return string(decoded)
}

func TestResolveFollowsGB2312AndCP936Tables(t *testing.T) {
	engine := New(nil)

	tests := []struct {
		name      string
		value     string
		want      []string
		preferred string
		emit      bool
	}{
		{
			name:      "gb2312 horizontal bar wins the tie",
			value:     latin1(t, []byte{0xD6, 0xD0, 0xA1, 0xAA, 0xCE, 0xC4}),
			want:      []string{"中―文", "中—文", "脰脨隆陋脦脛", "ÖÐ¡ªÎÄ"},
			preferred: "中―文",
			emit:      true,
		},
		{
			name:  "lone 0x80 is not a euro sign",
			value: "\u0080ÖÐ",
			want:  []string{"聙脰脨", "\u0080ÖÐ"},
		},
		{
			name:      "code unassigned in gb2312",
			value:     latin1(t, []byte{0xA2, 0xA1, 0xD6, 0xD0}),
			want:      []string{"ⅰ中", "垄隆脰脨", "¢¡ÖÐ"},
			preferred: "ⅰ中",
			emit:      true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.Candidates(tc.value); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Candidates(%q) = %q, want %q", tc.value, got, tc.want)
			}
			correction, ok := engine.Resolve(tc.value)
			if ok != tc.emit {
				t.Fatalf("Resolve(%q) emit = %v, want %v", tc.value, ok, tc.emit)
			}
			if ok && correction.Preferred != tc.preferred {
				t.Fatalf("Resolve(%q) preferred = %q, want %q", tc.value, correction.Preferred, tc.preferred)
			}
		})
	}
}
