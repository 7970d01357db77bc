// assets/embed.go
//
// Embedded data files shipped with the binary.
// Currently a single default word list (words.json) used when no
// WORDS_FILE is configured.

package assets

import (
	"embed"
	"io"
)

//go:embed words.json
var FS embed.FS

// DefaultWordsFile is the name of the embedded default word list.
const DefaultWordsFile = "words.json"

// OpenWordList opens the embedded default word list for reading.
// The caller closes it.
func OpenWordList() (io.ReadCloser, error) {
	return FS.Open(DefaultWordsFile)
}
