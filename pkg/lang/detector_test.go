package lang

import "testing"

func TestDetectChinese(t *testing.T) {
	d := NewDetector(TagChinese)
	if got := d.Detect("請拿起左邊那個鋁型材"); got != TagChinese {
		t.Fatalf("expected zh, got %s", got)
	}
}

func TestDetectEnglish(t *testing.T) {
	d := NewDetector(TagChinese)
	if got := d.Detect("pick up the red block on the table please"); got != TagEnglish {
		t.Fatalf("expected en, got %s", got)
	}
}

func TestDetectEmptyFallsBack(t *testing.T) {
	d := NewDetector(TagEnglish)
	if got := d.Detect("   "); got != TagEnglish {
		t.Fatalf("expected fallback en, got %s", got)
	}
}
