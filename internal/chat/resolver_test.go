package chat

import (
	"testing"

	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/models"
)

func testCatalog() *metadata.Catalog {
	return metadata.NewCatalog(models.ArticleSet{
		"issue-42": {Title: "The Future of Finding Aids", URL: "https://example.org/42", Author: "A. Archivist"},
		"no-link":  {Title: "An Unpublished Draft", URL: "", Author: "B. Writer"},
	})
}

func TestResolve_StripsSuffixAndLooksUp(t *testing.T) {
	got := Resolve(models.Citation{Title: "issue-42.md", Text: "snippet"}, testCatalog())
	if got.Title != "The Future of Finding Aids" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.URL == nil || *got.URL != "https://example.org/42" {
		t.Errorf("URL = %v", got.URL)
	}
}

func TestResolve_HitWithoutURL(t *testing.T) {
	got := Resolve(models.Citation{Title: "no-link.md"}, testCatalog())
	if got.Title != "An Unpublished Draft" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.URL != nil {
		t.Errorf("URL = %v, want nil", got.URL)
	}
}

func TestResolve_MissKeepsRawTitle(t *testing.T) {
	got := Resolve(models.Citation{Title: "never-seen.md"}, testCatalog())
	if got.Title != "never-seen.md" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.URL != nil {
		t.Errorf("URL = %v, want nil", got.URL)
	}
}

func TestResolveAll_PreservesOrder(t *testing.T) {
	raw := []models.Citation{
		{Title: "no-link.md"},
		{Title: "issue-42.md"},
		{Title: "missing.md"},
	}
	got := ResolveAll(raw, testCatalog())
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	wantTitles := []string{"An Unpublished Draft", "The Future of Finding Aids", "missing.md"}
	for i, w := range wantTitles {
		if got[i].Title != w {
			t.Errorf("got[%d].Title = %q, want %q", i, got[i].Title, w)
		}
	}
}
