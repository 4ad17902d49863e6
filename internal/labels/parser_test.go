package labels

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeLabelFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_Lines(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantRecords int
		wantKind    ErrorKind // checked only when wantErrors > 0
		wantErrors  int
	}{
		{
			name:        "valid triangle",
			content:     "0 0.1 0.2 0.3 0.4 0.5 0.6\n",
			wantRecords: 1,
		},
		{
			name:        "too few points",
			content:     "1 0.1 0.2\n",
			wantErrors:  1,
			wantKind:    TooFewPoints,
		},
		{
			name:        "coordinate out of range",
			content:     "2 0.1 0.2 1.5 0.3\n",
			wantErrors:  1,
			wantKind:    CoordinateOutOfRange,
		},
		{
			name:        "malformed class id",
			content:     "abc 0.1 0.2 0.3 0.4 0.5 0.6\n",
			wantErrors:  1,
			wantKind:    MalformedNumber,
		},
		{
			name:        "float class id means it was dropped",
			content:     "0.1 0.2 0.3 0.4 0.5 0.6\n",
			wantErrors:  1,
			wantKind:    MissingClassId,
		},
		{
			name:        "negative class id",
			content:     "-3 0.1 0.2 0.3 0.4 0.5 0.6\n",
			wantErrors:  1,
			wantKind:    MalformedNumber,
		},
		{
			name:        "odd coordinate count",
			content:     "0 0.1 0.2 0.3 0.4 0.5\n",
			wantErrors:  1,
			wantKind:    OddCoordinateCount,
		},
		{
			name:        "malformed coordinate",
			content:     "0 0.1 0.2 zzz 0.4 0.5 0.6\n",
			wantErrors:  1,
			wantKind:    MalformedNumber,
		},
		{
			name:        "negative coordinate",
			content:     "0 0.1 0.2 -0.3 0.4 0.5 0.6\n",
			wantErrors:  1,
			wantKind:    CoordinateOutOfRange,
		},
		{
			name:        "blank lines ignored",
			content:     "\n\n0 0.1 0.2 0.3 0.4 0.5 0.6\n\n",
			wantRecords: 1,
		},
		{
			name:        "boundary coordinates accepted",
			content:     "4 0.0 0.0 1.0 0.0 1.0 1.0\n",
			wantRecords: 1,
		},
		{
			name:        "empty file",
			content:     "",
			wantRecords: 0,
			wantErrors:  0,
		},
	}

	parser := New(zerolog.Nop())
	dir := t.TempDir()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLabelFile(t, dir, "labels.txt", tt.content)
			res := parser.ParseFile(path)

			if len(res.Records) != tt.wantRecords {
				t.Errorf("got %d records, want %d", len(res.Records), tt.wantRecords)
			}
			if len(res.Errors) != tt.wantErrors {
				t.Fatalf("got %d errors (%v), want %d", len(res.Errors), res.Errors, tt.wantErrors)
			}
			if tt.wantErrors > 0 {
				if res.Errors[0].Kind != tt.wantKind {
					t.Errorf("got kind %s, want %s", res.Errors[0].Kind, tt.wantKind)
				}
				if res.Errors[0].Line != 1 {
					t.Errorf("error at line %d, want 1", res.Errors[0].Line)
				}
			}
		})
	}
}

func TestParseFile_RecordValues(t *testing.T) {
	parser := New(zerolog.Nop())
	path := writeLabelFile(t, t.TempDir(), "one.txt", "0 0.1 0.2 0.3 0.4 0.5 0.6\n")

	res := parser.ParseFile(path)
	if len(res.Records) != 1 || len(res.Errors) != 0 {
		t.Fatalf("got %d records / %d errors, want 1 / 0", len(res.Records), len(res.Errors))
	}

	rec := res.Records[0]
	if rec.ClassID != 0 {
		t.Errorf("ClassID = %d, want 0", rec.ClassID)
	}
	if rec.Line != 1 {
		t.Errorf("Line = %d, want 1", rec.Line)
	}
	want := []Point{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}}
	if len(rec.Polygon) != len(want) {
		t.Fatalf("polygon has %d points, want %d", len(rec.Polygon), len(want))
	}
	for i, p := range want {
		if math.Abs(rec.Polygon[i].X-p.X) > 1e-9 || math.Abs(rec.Polygon[i].Y-p.Y) > 1e-9 {
			t.Errorf("Polygon[%d] = %v, want %v", i, rec.Polygon[i], p)
		}
	}
}

func TestParseFile_MixedFile(t *testing.T) {
	// 3 valid lines interleaved with 3 invalid ones. The parser must skip
	// and continue, never abort, and keep both sequences in line order.
	content := "0 0.1 0.2 0.3 0.4 0.5 0.6\n" + // valid (line 1)
		"abc 0.1 0.2 0.3 0.4 0.5 0.6\n" + // MalformedNumber (line 2)
		"1 0.2 0.2 0.4 0.4 0.6 0.2\n" + // valid (line 3)
		"\n" + // blank, ignored
		"2 0.1 0.2\n" + // TooFewPoints (line 5)
		"3 0.1 0.2 1.5 0.3 0.5 0.5\n" + // CoordinateOutOfRange (line 6)
		"4 0.9 0.9 0.8 0.7 0.6 0.5\n" // valid (line 7)

	parser := New(zerolog.Nop())
	path := writeLabelFile(t, t.TempDir(), "mixed.txt", content)
	res := parser.ParseFile(path)

	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}
	if len(res.Errors) != 3 {
		t.Fatalf("got %d errors, want 3", len(res.Errors))
	}

	wantRecordLines := []int{1, 3, 7}
	for i, line := range wantRecordLines {
		if res.Records[i].Line != line {
			t.Errorf("record %d at line %d, want %d", i, res.Records[i].Line, line)
		}
	}

	wantErrors := []struct {
		line int
		kind ErrorKind
	}{
		{2, MalformedNumber},
		{5, TooFewPoints},
		{6, CoordinateOutOfRange},
	}
	for i, want := range wantErrors {
		if res.Errors[i].Line != want.line || res.Errors[i].Kind != want.kind {
			t.Errorf("error %d = line %d %s, want line %d %s",
				i, res.Errors[i].Line, res.Errors[i].Kind, want.line, want.kind)
		}
	}
}

func TestParseFile_Missing(t *testing.T) {
	parser := New(zerolog.Nop())
	res := parser.ParseFile(filepath.Join(t.TempDir(), "nope.txt"))

	if len(res.Records) != 0 {
		t.Errorf("got %d records, want 0", len(res.Records))
	}
	if len(res.Errors) != 1 || res.Errors[0].Kind != FileAccess {
		t.Fatalf("got errors %v, want one FileAccess", res.Errors)
	}
	if !res.Fatal() {
		t.Error("Fatal() = false, want true")
	}
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	writeLabelFile(t, dir, "a.txt", "0 0.1 0.2 0.3 0.4 0.5 0.6\n")
	writeLabelFile(t, dir, "b.txt", "1 0.1 0.2\n")
	writeLabelFile(t, dir, "notes.md", "not a label file\n")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	writeLabelFile(t, filepath.Join(dir, "nested"), "c.txt", "0 0.1 0.2 0.3 0.4 0.5 0.6\n")

	parser := New(zerolog.Nop())
	results := parser.ParseDirectory(dir, ".txt")

	// Only the two top-level .txt files, lexicographic order.
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if filepath.Base(results[0].Path) != "a.txt" || filepath.Base(results[1].Path) != "b.txt" {
		t.Errorf("unexpected order: %s, %s", results[0].Path, results[1].Path)
	}
	if len(results[0].Records) != 1 || len(results[0].Errors) != 0 {
		t.Errorf("a.txt: got %d records / %d errors", len(results[0].Records), len(results[0].Errors))
	}
	if len(results[1].Records) != 0 || len(results[1].Errors) != 1 {
		t.Errorf("b.txt: got %d records / %d errors", len(results[1].Records), len(results[1].Errors))
	}
}

func TestParseDirectory_UnreadableFileDoesNotStopIteration(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}

	dir := t.TempDir()
	writeLabelFile(t, dir, "a.txt", "0 0.1 0.2 0.3 0.4 0.5 0.6\n")
	locked := writeLabelFile(t, dir, "b.txt", "1 0.1 0.2 0.3 0.4 0.5 0.6\n")
	writeLabelFile(t, dir, "c.txt", "2 0.1 0.2 0.3 0.4 0.5 0.6\n")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}

	parser := New(zerolog.Nop())
	results := parser.ParseDirectory(dir, ".txt")

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !results[1].Fatal() {
		t.Errorf("b.txt: expected FileAccess result, got %+v", results[1])
	}
	if len(results[0].Records) != 1 || len(results[2].Records) != 1 {
		t.Error("readable files around the unreadable one were not parsed")
	}
}

func TestParseDirectory_MissingDir(t *testing.T) {
	parser := New(zerolog.Nop())
	results := parser.ParseDirectory(filepath.Join(t.TempDir(), "ghost"), ".txt")

	if len(results) != 1 || !results[0].Fatal() {
		t.Fatalf("got %+v, want a single FileAccess result", results)
	}
}
