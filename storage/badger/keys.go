package badger

import (
	"fmt"

	"github.com/poiesic/answerit/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "embrec"
)

// makeEmbeddingKey generates a key for a cached embedding by content ID.
func makeEmbeddingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, id))
}
