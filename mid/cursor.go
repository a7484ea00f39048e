package mid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// Cursor reads fixed-width ASCII fields and repeating record groups out of
// a MID payload, tracking a read position that advances as each field is
// consumed.
//
// Cursor is not safe for concurrent use; a leaf codec's Parse creates one
// per call.
type Cursor struct {
	payload []byte
	pos     int
}

// NewCursor creates a Cursor over payload, starting at position 0.
func NewCursor(payload []byte) *Cursor {
	return &Cursor{payload: payload}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.payload) - c.pos }

// Seek repositions the cursor to an absolute offset, clamped to the
// payload's bounds. Leaf codecs use this when a field's position is given
// relative to the start of payload rather than relative to the cursor.
func (c *Cursor) Seek(pos int) {
	switch {
	case pos < 0:
		c.pos = 0
	case pos > len(c.payload):
		c.pos = len(c.payload)
	default:
		c.pos = pos
	}
}

func (c *Cursor) take(name string, width int) ([]byte, error) {
	if c.Remaining() < width {
		return nil, fmt.Errorf("%w: field %q needs %d bytes, %d remain", message.ErrInvalidPayload, name, width, c.Remaining())
	}

	field := c.payload[c.pos : c.pos+width]
	c.pos += width

	return field, nil
}

// ReadString reads a width-byte field, right-trimmed of trailing spaces,
// per the Data Field string convention (readField's "string" type).
func (c *Cursor) ReadString(name string, width int) (string, error) {
	field, err := c.take(name, width)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(field), " "), nil
}

// ReadRawString reads a width-byte field verbatim (readField's "rawString"
// type): no trimming, but every byte must be printable ASCII or the field
// is considered malformed.
func (c *Cursor) ReadRawString(name string, width int) (string, error) {
	field, err := c.take(name, width)
	if err != nil {
		return "", err
	}

	for _, b := range field {
		if b < 0x20 || b > 0x7e {
			return "", fmt.Errorf("%w: field %q contains non-printable byte 0x%02x", message.ErrInvalidPayload, name, b)
		}
	}

	return string(field), nil
}

// ReadNumber reads a width-byte all-digit field and parses it as an
// unsigned integer (readField's "number" type).
func (c *Cursor) ReadNumber(name string, width int) (int, error) {
	field, err := c.take(name, width)
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(string(field))
	if err == nil {
		for _, b := range field {
			if b < '0' || b > '9' {
				err = strconv.ErrSyntax

				break
			}
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: field %q is not numeric: %q", message.ErrInvalidPayload, name, field)
	}

	return v, nil
}

// ReadBytes reads width raw bytes without interpretation, used for a Data
// Field's variable-length dataValue.
func (c *Cursor) ReadBytes(name string, width int) ([]byte, error) {
	field, err := c.take(name, width)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), field...), nil
}

// TestNul asserts the current byte is 0x00 and advances past it.
func (c *Cursor) TestNul() error {
	field, err := c.take("nul", 1)
	if err != nil {
		return err
	}

	if field[0] != 0x00 {
		return fmt.Errorf("%w: expected NUL at position %d, got 0x%02x", message.ErrInvalidPayload, c.pos-1, field[0])
	}

	return nil
}
