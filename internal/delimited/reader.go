package delimited

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Dialect describes the delimiter syntax of an input file. Separator and
// Enclosure must be single bytes; a zero Escape disables escape handling.
type Dialect struct {
	Separator byte
	Enclosure byte
	Escape    byte
}

// DefaultDialect returns the comma/double-quote/backslash syntax most
// exports use.
func DefaultDialect() Dialect {
	return Dialect{Separator: ',', Enclosure: '"', Escape: '\\'}
}

// Reader yields one record per delimited row.
type Reader struct {
	r       *bufio.Reader
	dialect Dialect
}

// NewReader wraps r with a record reader for the given dialect. Zero
// separator or enclosure bytes fall back to the defaults.
func NewReader(r io.Reader, dialect Dialect) *Reader {
	if dialect.Separator == 0 {
		dialect.Separator = ','
	}
	if dialect.Enclosure == 0 {
		dialect.Enclosure = '"'
	}
	return &Reader{
		r:       bufio.NewReader(r),
		dialect: dialect,
	}
}

// Read returns the fields of the next record. It returns io.EOF once the
// input is exhausted; a trailing newline does not produce an empty record.
func (r *Reader) Read() ([]string, error) {
	if _, err := r.r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return r.readRecord()
}

// ReadAll collects every remaining record.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

func (r *Reader) readRecord() ([]string, error) {
	var (
		fields       []string
		field        bytes.Buffer
		quoted       bool
		atFieldStart = true
	)

	finish := func() []string {
		return append(fields, field.String())
	}

	for {
		b, err := r.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Unterminated quoted fields keep what was read.
				return finish(), nil
			}
			return nil, err
		}

		if quoted {
			switch {
			case r.dialect.Escape != 0 && b == r.dialect.Escape:
				// The escape protects the next byte and stays in the value.
				next, err := r.r.ReadByte()
				if err != nil {
					if errors.Is(err, io.EOF) {
						field.WriteByte(b)
						return finish(), nil
					}
					return nil, err
				}
				field.WriteByte(b)
				field.WriteByte(next)
			case b == r.dialect.Enclosure:
				next, err := r.r.ReadByte()
				if err != nil {
					if errors.Is(err, io.EOF) {
						return finish(), nil
					}
					return nil, err
				}
				if next == r.dialect.Enclosure {
					field.WriteByte(r.dialect.Enclosure)
					continue
				}
				// Enclosure closed; the next byte belongs to the
				// unquoted tail of the field.
				quoted = false
				if err := r.r.UnreadByte(); err != nil {
					return nil, err
				}
			default:
				// Newlines inside an enclosure are data.
				field.WriteByte(b)
			}
			continue
		}

		switch b {
		case r.dialect.Separator:
			fields = append(fields, field.String())
			field.Reset()
			atFieldStart = true
			continue
		case '\n':
			return finish(), nil
		case '\r':
			next, err := r.r.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return finish(), nil
				}
				return nil, err
			}
			if next == '\n' {
				return finish(), nil
			}
			if err := r.r.UnreadByte(); err != nil {
				return nil, err
			}
			field.WriteByte('\r')
		case r.dialect.Enclosure:
			if atFieldStart {
				quoted = true
			} else {
				field.WriteByte(b)
			}
		default:
			field.WriteByte(b)
		}
		atFieldStart = false
	}
}
