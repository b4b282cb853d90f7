package protocol

import (
	"errors"
	"fmt"
)

const (
	signatureSize = 64
	pubkeySize    = 32

	// versionPrefix marks a versioned message; the low bits hold the version.
	versionPrefix = 0x80
)

var errTruncated = errors.New("protocol: transaction is truncated")

// wireTransaction is a transaction split into its signature slots and the
// message those signatures cover.
type wireTransaction struct {
	signatures [][]byte
	message    []byte
	required   int
	accounts   [][]byte
}

// decodeTransaction accepts either a bare message or a serialized
// transaction whose signature slots precede the message. A bare message gets
// one empty slot per required signature.
func decodeTransaction(raw []byte) (*wireTransaction, error) {
	if count, n, err := decodeShortVec(raw); err == nil && count > 0 {
		start := n + count*signatureSize
		if start < len(raw) {
			required, accounts, err := parseMessage(raw[start:])
			if err == nil && required == count {
				sigs := make([][]byte, count)
				for i := range sigs {
					off := n + i*signatureSize
					sigs[i] = append([]byte(nil), raw[off:off+signatureSize]...)
				}
				return &wireTransaction{signatures: sigs, message: raw[start:], required: required, accounts: accounts}, nil
			}
		}
	}

	required, accounts, err := parseMessage(raw)
	if err != nil {
		return nil, err
	}
	sigs := make([][]byte, required)
	for i := range sigs {
		sigs[i] = make([]byte, signatureSize)
	}
	return &wireTransaction{signatures: sigs, message: raw, required: required, accounts: accounts}, nil
}

func (tx *wireTransaction) encode() []byte {
	prefix := encodeShortVec(len(tx.signatures))
	out := make([]byte, 0, len(prefix)+len(tx.signatures)*signatureSize+len(tx.message))
	out = append(out, prefix...)
	for _, sig := range tx.signatures {
		out = append(out, sig...)
	}
	return append(out, tx.message...)
}

// parseMessage walks a legacy or v0 message end to end and returns the
// required signature count and the static account keys. Trailing bytes are
// an error so a serialized transaction is never mistaken for a message.
func parseMessage(msg []byte) (int, [][]byte, error) {
	r := &reader{buf: msg}
	versioned := false
	if len(msg) > 0 && msg[0]&versionPrefix != 0 {
		if version := msg[0] &^ versionPrefix; version != 0 {
			return 0, nil, fmt.Errorf("protocol: unsupported message version %d", version)
		}
		versioned = true
		r.pos = 1
	}

	header, err := r.take(3)
	if err != nil {
		return 0, nil, err
	}
	required := int(header[0])

	count, err := r.shortVec()
	if err != nil {
		return 0, nil, err
	}
	accounts := make([][]byte, count)
	for i := range accounts {
		if accounts[i], err = r.take(pubkeySize); err != nil {
			return 0, nil, err
		}
	}
	if required == 0 || required > count {
		return 0, nil, fmt.Errorf("protocol: message asks for %d signatures over %d accounts", required, count)
	}

	// recent blockhash
	if _, err := r.take(pubkeySize); err != nil {
		return 0, nil, err
	}

	instructions, err := r.shortVec()
	if err != nil {
		return 0, nil, err
	}
	for i := 0; i < instructions; i++ {
		if _, err := r.take(1); err != nil {
			return 0, nil, err
		}
		if err := r.skipVec(); err != nil {
			return 0, nil, err
		}
		if err := r.skipVec(); err != nil {
			return 0, nil, err
		}
	}

	if versioned {
		lookups, err := r.shortVec()
		if err != nil {
			return 0, nil, err
		}
		for i := 0; i < lookups; i++ {
			if _, err := r.take(pubkeySize); err != nil {
				return 0, nil, err
			}
			if err := r.skipVec(); err != nil {
				return 0, nil, err
			}
			if err := r.skipVec(); err != nil {
				return 0, nil, err
			}
		}
	}

	if r.pos != len(msg) {
		return 0, nil, fmt.Errorf("protocol: %d unexpected bytes after message", len(msg)-r.pos)
	}
	return required, accounts, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, errTruncated
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) shortVec() (int, error) {
	v, n, err := decodeShortVec(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

func (r *reader) skipVec() error {
	n, err := r.shortVec()
	if err != nil {
		return err
	}
	_, err = r.take(n)
	return err
}

// decodeShortVec reads a compact-u16 length: seven bits per byte, low group
// first, at most three bytes.
func decodeShortVec(b []byte) (int, int, error) {
	value := 0
	for i := 0; i < 3; i++ {
		if i >= len(b) {
			return 0, 0, errTruncated
		}
		c := b[i]
		value |= int(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			if i > 0 && c == 0 {
				return 0, 0, errors.New("protocol: non-canonical length prefix")
			}
			if value > 0xffff {
				return 0, 0, errors.New("protocol: length prefix overflows u16")
			}
			return value, i + 1, nil
		}
	}
	return 0, 0, errors.New("protocol: length prefix overflows u16")
}

func encodeShortVec(v int) []byte {
	var out []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, c)
		}
		out = append(out, c|0x80)
	}
}
