package frontmatter

import (
	"testing"
)

func TestExtract_AllFields(t *testing.T) {
	input := []byte("---\ntitle: Community Archives\nsource: https://example.org/a\nauthor: Hana Kim\n---\n# Body\nText.\n")
	rec, ok := Extract(input)
	if !ok {
		t.Fatal("expected ok")
	}
	if rec.Title != "Community Archives" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Source != "https://example.org/a" {
		t.Errorf("source = %q", rec.Source)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != "Hana Kim" {
		t.Errorf("authors = %v", rec.Authors)
	}
}

func TestExtract_AuthorList(t *testing.T) {
	input := []byte("---\ntitle: T\nauthor:\n  - First Author\n  - Second Author\n---\nBody\n")
	rec, ok := Extract(input)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "First Author" {
		t.Errorf("authors = %v, want first element preserved", rec.Authors)
	}
}

func TestExtract_NoFrontmatter(t *testing.T) {
	rec, ok := Extract([]byte("# Just a heading\nSome text.\n"))
	if ok {
		t.Error("expected ok=false without a header block")
	}
	if !rec.IsZero() {
		t.Errorf("expected zero record, got %+v", rec)
	}
}

func TestExtract_UnclosedDelimiter(t *testing.T) {
	rec, ok := Extract([]byte("---\ntitle: T\nno closing marker\n"))
	if ok || !rec.IsZero() {
		t.Errorf("expected zero record for unclosed header, got ok=%v %+v", ok, rec)
	}
}

func TestExtract_InvalidYAML(t *testing.T) {
	rec, ok := Extract([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	if ok || !rec.IsZero() {
		t.Errorf("expected zero record for invalid YAML, got ok=%v %+v", ok, rec)
	}
}

func TestExtract_EmptyAuthorScalar(t *testing.T) {
	input := []byte("---\ntitle: T\nauthor: \"\"\n---\nBody\n")
	rec, ok := Extract(input)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(rec.Authors) != 0 {
		t.Errorf("authors = %v, want empty", rec.Authors)
	}
}

func TestExtract_LeadingBlankLines(t *testing.T) {
	input := []byte("\n\n---\ntitle: T\n---\nBody\n")
	rec, ok := Extract(input)
	if !ok || rec.Title != "T" {
		t.Errorf("leading blank lines should not hide the header: ok=%v title=%q", ok, rec.Title)
	}
}
