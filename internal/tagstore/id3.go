package tagstore

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

var (
	ErrNoTags = errors.New("no id3v2 tag")
	ErrNotMP3 = errors.New("not an mp3 file")
)

// Sniff checks that path holds MP3 data carrying an ID3v2 tag. Files with no
// tag at all or with only an ID3v1 trailer report ErrNoTags.
func Sniff(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	defer file.Close()

	format, fileType, err := tag.Identify(file)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return ErrNoTags
	}
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	if fileType != tag.MP3 {
		return &OpenError{Path: path, Err: fmt.Errorf("%w (detected %s)", ErrNotMP3, fileType)}
	}
	if format == tag.ID3v1 {
		return ErrNoTags
	}
	return nil
}

type ID3Opener struct {
	// SkipSniff opens the file with the ID3v2 parser directly.
	SkipSniff bool
}

func (o ID3Opener) Open(path string) (Container, error) {
	if !o.SkipSniff {
		if err := Sniff(path); err != nil {
			return nil, err
		}
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &id3Container{tag: t}, nil
}

type id3Container struct {
	tag *id3v2.Tag
}

func (c *id3Container) Keys() []string {
	keys := []string{}
	for _, spec := range keyTable {
		if len(c.tag.GetFrames(spec.frameID(c.tag.Version()))) > 0 {
			keys = append(keys, spec.key)
		}
	}
	return keys
}

func (c *id3Container) Values(key string) []string {
	spec, ok := lookupKey(key)
	if !ok {
		return nil
	}

	values := []string{}
	for _, framer := range c.tag.GetFrames(spec.frameID(c.tag.Version())) {
		switch frame := framer.(type) {
		case id3v2.CommentFrame:
			values = append(values, frame.Text)
		case id3v2.TextFrame:
			values = append(values, splitTextValues(frame.Text)...)
		}
	}
	return values
}

// SetValues replaces every frame of key. Written frames are always UTF-8
// with NUL-separated values, so a v2.3 tag is upgraded to v2.4 first and
// its version-specific frames are moved to their v2.4 IDs.
func (c *id3Container) SetValues(key string, values []string) error {
	spec, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
	}

	c.upgradeToV24()
	id := spec.v24ID

	if key == commentKey {
		previous := c.tag.GetFrames(id)
		c.tag.DeleteFrames(id)
		for i, value := range values {
			frame := id3v2.CommentFrame{Encoding: id3v2.EncodingUTF8, Language: "eng", Text: value}
			if i < len(previous) {
				if old, ok := previous[i].(id3v2.CommentFrame); ok {
					frame.Language = old.Language
					frame.Description = old.Description
				}
			}
			c.tag.AddCommentFrame(frame)
		}
		return nil
	}

	c.tag.DeleteFrames(id)
	if len(values) > 0 {
		c.tag.AddTextFrame(id, id3v2.EncodingUTF8, strings.Join(values, "\x00"))
	}
	return nil
}

func (c *id3Container) upgradeToV24() {
	if c.tag.Version() >= 4 {
		return
	}
	for _, spec := range keyTable {
		if spec.v23ID == "" {
			continue
		}
		values := []string{}
		for _, framer := range c.tag.GetFrames(spec.v23ID) {
			if frame, ok := framer.(id3v2.TextFrame); ok {
				values = append(values, splitTextValues(frame.Text)...)
			}
		}
		c.tag.DeleteFrames(spec.v23ID)
		if len(values) > 0 && len(c.tag.GetFrames(spec.v24ID)) == 0 {
			c.tag.AddTextFrame(spec.v24ID, id3v2.EncodingUTF8, strings.Join(values, "\x00"))
		}
	}
	c.tag.SetVersion(4)
}

func (c *id3Container) Save() error {
	return c.tag.Save()
}

func (c *id3Container) Close() error {
	return c.tag.Close()
}

func splitTextValues(text string) []string {
	parts := strings.Split(text, "\x00")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
