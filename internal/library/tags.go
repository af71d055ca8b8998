package library

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

type tagKind uint8

const (
	tagAbsent tagKind = iota
	tagScalar
	tagList
)

// Tag is a single metadata field as the daemon reports it: absent, exactly
// one value, or a list of values. Cache files written by earlier clerk
// versions contain all three shapes, so the distinction survives
// serialization.
type Tag struct {
	kind tagKind
	one  string
	many []string
}

// NoTag returns the absent value.
func NoTag() Tag {
	return Tag{}
}

// Scalar wraps a single tag value.
func Scalar(value string) Tag {
	return Tag{kind: tagScalar, one: value}
}

// List wraps a multi-valued tag. The values are copied.
func List(values ...string) Tag {
	cp := make([]string, len(values))
	copy(cp, values)
	return Tag{kind: tagList, many: cp}
}

// IsAbsent reports whether the tag was missing entirely. An empty string or
// an empty list is present, not absent.
func (t Tag) IsAbsent() bool {
	return t.kind == tagAbsent
}

// First returns the tag's first value. It reports false when the tag is
// absent or an empty list; an empty string value reports true.
func (t Tag) First() (string, bool) {
	switch t.kind {
	case tagScalar:
		return t.one, true
	case tagList:
		if len(t.many) == 0 {
			return "", false
		}
		return t.many[0], true
	default:
		return "", false
	}
}

// Strings returns all values of the tag, nil when absent.
func (t Tag) Strings() []string {
	switch t.kind {
	case tagScalar:
		return []string{t.one}
	case tagList:
		cp := make([]string, len(t.many))
		copy(cp, t.many)
		return cp
	default:
		return nil
	}
}

// Display returns the value shown to users: the first value, or "" when the
// tag has none.
func (t Tag) Display() string {
	value, _ := t.First()
	return value
}

var (
	_ msgpack.CustomEncoder = Tag{}
	_ msgpack.CustomDecoder = (*Tag)(nil)
)

// EncodeMsgpack writes the tag in the shared cache format: nil for absent,
// a string for a scalar, an array of strings for a list.
func (t Tag) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch t.kind {
	case tagScalar:
		return enc.EncodeString(t.one)
	case tagList:
		if err := enc.EncodeArrayLen(len(t.many)); err != nil {
			return err
		}
		for _, value := range t.many {
			if err := enc.EncodeString(value); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.EncodeNil()
	}
}

// DecodeMsgpack reads any of the three shapes back into the tag.
func (t *Tag) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*t = Tag{}
	case msgpcode.IsString(code):
		value, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*t = Scalar(value)
	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		length, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		values := make([]string, 0, length)
		for i := 0; i < length; i++ {
			value, err := dec.DecodeString()
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		*t = Tag{kind: tagList, many: values}
	default:
		return fmt.Errorf("tag value: unexpected msgpack code %#x", code)
	}
	return nil
}
