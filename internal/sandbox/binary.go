package sandbox

// binarySampleSize is how many leading bytes of output are scanned for NULs.
// Output holding a NUL in that sample is binary unless it opened with a
// UTF-16 or UTF-32 byte order mark.
const binarySampleSize = 8000

// hasTextBOM reports whether content starts with a UTF-16 or UTF-32 byte
// order mark. Only meaningful for the first bytes of a stream.
func hasTextBOM(content []byte) bool {
	if len(content) >= 4 {
		if (content[0] == 0xFF && content[1] == 0xFE && content[2] == 0x00 && content[3] == 0x00) ||
			(content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF) {
			return true
		}
	}
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) || (content[0] == 0xFE && content[1] == 0xFF) {
			return true
		}
	}
	return false
}

func hasNUL(content []byte) bool {
	for _, b := range content {
		if b == 0 {
			return true
		}
	}
	return false
}
