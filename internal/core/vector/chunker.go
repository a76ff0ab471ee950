package vector

// SplitChunks cuts texto into fixed-size windows of size runes with overlap
// runes shared between consecutive windows, advancing size-overlap each
// step. Every offset of the text is covered by at least one window, and a
// text no longer than size yields exactly one chunk. Rune-based so multibyte
// Spanish text never splits mid-character.
func SplitChunks(texto string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(texto)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{texto}
	}

	step := size - overlap
	var out []string
	for i := 0; i < len(runes); i += step {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}
