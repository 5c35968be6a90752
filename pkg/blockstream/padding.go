package blockstream

// pkcs7Extend writes PKCS#7 padding after the n staged bytes in buf and
// returns the padded length. A full block of padding is added when n is
// already aligned; buf must have BlockSize bytes of headroom.
func pkcs7Extend(buf []byte, n int) int {
	pad := BlockSize - n%BlockSize

	for i := 0; i < pad; i++ {
		buf[n+i] = byte(pad)
	}

	return n + pad
}

// pkcs7Strip validates and removes PKCS#7 padding.
//
// All pad candidate bytes are inspected regardless of where a mismatch
// occurs, accumulating differences instead of short-circuiting, so timing
// does not reveal the mismatch position.
func pkcs7Strip(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPadding
	}

	pad := int(data[len(data)-1])
	if pad < 1 || pad > BlockSize || pad > len(data) {
		return nil, ErrBadPadding
	}

	var diff byte

	for _, b := range data[len(data)-pad:] {
		diff |= b ^ byte(pad)
	}

	if diff != 0 {
		return nil, ErrBadPadding
	}

	return data[:len(data)-pad], nil
}
