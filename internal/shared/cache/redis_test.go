package cache

import (
	"strings"
	"testing"
)

func TestEmbeddingKeyIsStablePerModelAndText(t *testing.T) {
	a := embeddingKey("text-embedding-3-small", "do you have phones?")
	b := embeddingKey("text-embedding-3-small", "do you have phones?")
	if a != b {
		t.Fatalf("same input produced different keys: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "embedding:text-embedding-3-small:") {
		t.Errorf("unexpected key prefix: %s", a)
	}

	if c := embeddingKey("text-embedding-3-large", "do you have phones?"); c == a {
		t.Error("different models must not share a cache key")
	}
	if d := embeddingKey("text-embedding-3-small", "do you have tablets?"); d == a {
		t.Error("different texts must not share a cache key")
	}
}
