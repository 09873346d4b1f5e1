package ingest

import "strings"

const (
	defaultChunkWords   = 200
	defaultOverlapWords = 30
)

// chunkWords splits text into word-bounded chunks of at most size words,
// with the last overlap words of each chunk repeated at the start of the
// next so that sentences cut at a boundary stay retrievable from both
// sides.
func chunkWords(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkWords
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultOverlapWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
