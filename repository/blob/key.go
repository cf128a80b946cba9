package blob

import (
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateKey produces a globally unique object key.
// The partition ("recipe", "profile", ..) namespaces keys per owner kind,
// the nanosecond timestamp plus a random UUID make collisions impossible
// in practice, and the original extension is kept so the stored object
// stays recognizable.
func GenerateKey(originalName string, partition string) string {
	ext := strings.ToLower(path.Ext(originalName))
	name := strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + uuid.NewString() + ext
	if partition == "" {
		return name
	}
	return partition + "/" + name
}
