package csvsink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/domain"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"out", "out.csv"},
		{"out.csv", "out.csv"},
		{"out.CSV", "out.CSV"},
		{"out.Csv", "out.Csv"},
		{"trace.txt", "trace.txt.csv"},
		{"dir/trace", "dir/trace.csv"},
	}

	for _, tc := range cases {
		if got := NormalizePath(tc.in); got != tc.want {
			t.Fatalf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
		// A second pass must not grow the name again.
		if got := NormalizePath(NormalizePath(tc.in)); got != tc.want {
			t.Fatalf("NormalizePath not idempotent for %q: %q", tc.in, got)
		}
	}
}

func TestEncodePreservesSampleOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")

	sink := New()
	if err := sink.Encode([]domain.RawSample{5, 0, 255}, 8, path); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	want := "1,0,1,0,0,0,0,0\n0,0,0,0,0,0,0,0\n1,1,1,1,1,1,1,1\n"
	if string(data) != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", data, want)
	}
}

func TestEncodeTruncatesToChannelCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")

	sink := New()
	if err := sink.Encode([]domain.RawSample{0b00000101}, 3, path); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "1,0,1\n" {
		t.Fatalf("expected row truncated to 3 channels, got %q", data)
	}
}

func TestEncodeEmptyCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	sink := New()
	if err := sink.Encode(nil, 2, path); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty file, got %q", data)
	}
}

func TestEncodeRejectsBadChannelCount(t *testing.T) {
	sink := New()
	for _, channels := range []int{0, 9, -1} {
		if err := sink.Encode([]domain.RawSample{1}, channels, filepath.Join(t.TempDir(), "x.csv")); err == nil {
			t.Fatalf("expected error for %d channels", channels)
		}
	}
}

func TestEncodeUnwritablePath(t *testing.T) {
	sink := New()
	path := filepath.Join(t.TempDir(), "missing", "capture.csv")
	if err := sink.Encode([]domain.RawSample{1}, 1, path); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
