package policy

// Chunk splits text into rune-based windows of size chunkSize advancing by
// chunkSize-overlap, so consecutive chunks share overlap runes. The final
// chunk may be shorter; every rune of the input appears in at least one
// chunk. Overlap must be smaller than chunkSize.
func Chunk(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
