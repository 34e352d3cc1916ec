// Package chunk splits oversized text into bounded-size fragments for
// sequential delivery through chat channels that enforce a per-message
// size ceiling.
package chunk

// Split cuts text into contiguous fragments of at most size runes each,
// preserving order. The final fragment may be shorter. Splitting is pure
// fixed-width slicing with no word-boundary awareness; empty input yields
// no fragments.
func Split(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Head returns the first size runes of text and the remainder.
func Head(text string, size int) (head, rest string) {
	if size <= 0 {
		return "", text
	}
	runes := []rune(text)
	if len(runes) <= size {
		return text, ""
	}
	return string(runes[:size]), string(runes[size:])
}
