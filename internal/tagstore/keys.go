package tagstore

import "sort"

const commentKey = "comment"

type keySpec struct {
	key   string
	v24ID string
	v23ID string
}

// keyTable maps the conventional tag key names onto ID3v2 frame IDs.
var keyTable = []keySpec{
	{key: "title", v24ID: "TIT2"},
	{key: "artist", v24ID: "TPE1"},
	{key: "album", v24ID: "TALB"},
	{key: "albumartist", v24ID: "TPE2"},
	{key: "genre", v24ID: "TCON"},
	{key: "composer", v24ID: "TCOM"},
	{key: "lyricist", v24ID: "TEXT"},
	{key: "conductor", v24ID: "TPE3"},
	{key: "arranger", v24ID: "TPE4"},
	{key: "grouping", v24ID: "TIT1"},
	{key: "version", v24ID: "TIT3"},
	{key: "discsubtitle", v24ID: "TSST"},
	{key: "organization", v24ID: "TPUB"},
	{key: "copyright", v24ID: "TCOP"},
	{key: "encodedby", v24ID: "TENC"},
	{key: "author", v24ID: "TOLY"},
	{key: "language", v24ID: "TLAN"},
	{key: "media", v24ID: "TMED"},
	{key: "mood", v24ID: "TMOO"},
	{key: "tracknumber", v24ID: "TRCK"},
	{key: "discnumber", v24ID: "TPOS"},
	{key: "bpm", v24ID: "TBPM"},
	{key: "isrc", v24ID: "TSRC"},
	{key: "date", v24ID: "TDRC", v23ID: "TYER"},
	{key: "albumsort", v24ID: "TSOA"},
	{key: "artistsort", v24ID: "TSOP"},
	{key: "albumartistsort", v24ID: "TSO2"},
	{key: "titlesort", v24ID: "TSOT"},
	{key: "composersort", v24ID: "TSOC"},
	{key: commentKey, v24ID: "COMM"},
}

func lookupKey(key string) (keySpec, bool) {
	for _, spec := range keyTable {
		if spec.key == key {
			return spec, true
		}
	}
	return keySpec{}, false
}

func (s keySpec) frameID(version byte) string {
	if version < 4 && s.v23ID != "" {
		return s.v23ID
	}
	return s.v24ID
}

// SupportedKeys lists every tag key a container can read and write.
func SupportedKeys() []string {
	keys := make([]string, 0, len(keyTable))
	for _, spec := range keyTable {
		keys = append(keys, spec.key)
	}
	sort.Strings(keys)
	return keys
}

func IsSupportedKey(key string) bool {
	_, ok := lookupKey(key)
	return ok
}
