package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	if AttrMethod == "" || AttrPath == "" || AttrStatus == "" || AttrOperation == "" || AttrOutcome == "" {
		t.Fatalf("expected metric attribute keys to be non-empty")
	}
}

func TestOperationNamesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, op := range []string{OpStartGame, OpFinishGame, OpUpdateScore, OpSummary} {
		if op == "" || seen[op] {
			t.Fatalf("expected unique non-empty operation name, got %q", op)
		}
		seen[op] = true
	}
}
