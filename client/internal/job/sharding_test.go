package job

import (
	"strconv"
	"testing"
)

func TestShardLabel_DeterministicAndRange(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "products", "my index/a", "ünï"} {
		got := ShardLabel(name)
		if got != ShardLabel(name) {
			t.Fatalf("ShardLabel not deterministic for %q", name)
		}
		n, err := strconv.Atoi(got)
		if err != nil || n < 0 || n > 31 {
			t.Fatalf("ShardLabel out of range for %q: %s", name, got)
		}
	}
}
