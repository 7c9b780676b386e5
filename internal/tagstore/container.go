package tagstore

import (
	"errors"
	"fmt"
)

var ErrUnsupportedKey = errors.New("unsupported tag key")

// Container is an opened tag block of one audio file. Values are ordered per
// key; SetValues replaces the whole list and nothing is persisted until Save.
type Container interface {
	Keys() []string
	Values(key string) []string
	SetValues(key string, values []string) error
	Save() error
	Close() error
}

type Opener interface {
	Open(path string) (Container, error)
}

type OpenerFunc func(path string) (Container, error)

func (f OpenerFunc) Open(path string) (Container, error) {
	return f(path)
}

// OpenError marks a file whose tag block could not be read.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open tags of %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
