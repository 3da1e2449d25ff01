package job

import (
	"hash/fnv"
	"strconv"
)

// ShardLabel hashes an index name to a stable, small-cardinality metrics
// label in [0,31].
func ShardLabel(index string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(index))
	return strconv.FormatUint(uint64(h.Sum32()%32), 10)
}
