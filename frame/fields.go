package frame

import "github.com/diwakrZha/node-open-protocol-v2/message"

// isAllSpaces reports whether every byte in b is an ASCII space.
func isAllSpaces(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}

	return true
}

// isAllDigits reports whether every byte in b is an ASCII digit.
func isAllDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// atoiDigits parses b (already verified all-digit) as a non-negative int.
func atoiDigits(b []byte) int {
	v := 0
	for _, c := range b {
		v = v*10 + int(c-'0')
	}

	return v
}

// parseNumericField parses a fixed-width numeric header field. An
// all-spaces field yields def. A non-digit byte or an out-of-range value
// yields errKind.
func parseNumericField(field []byte, def, min, max int, errKind error) (int, error) {
	if isAllSpaces(field) {
		return def, nil
	}

	if !isAllDigits(field) {
		return 0, errKind
	}

	v := atoiDigits(field)
	if v < min || v > max {
		return 0, errKind
	}

	return v, nil
}

// parseNoAck parses the 1-byte no-ack field: '0' or space → false, '1' → true.
func parseNoAck(field []byte) (bool, error) {
	switch field[0] {
	case ' ', '0':
		return false, nil
	case '1':
		return true, nil
	default:
		return false, message.ErrInvalidNoAck
	}
}

// putNumericField writes v, zero-padded left, into field. The caller must
// ensure v fits within len(field) digits.
func putNumericField(field []byte, v, width int) {
	for i := width - 1; i >= 0; i-- {
		field[i] = byte('0' + v%10)
		v /= 10
	}
}

// putNoAck writes the 1-byte no-ack field.
func putNoAck(field []byte, noAck bool) {
	if noAck {
		field[0] = '1'
	} else {
		field[0] = '0'
	}
}
