package importer_test

import (
	"strings"
	"testing"

	"github.com/nikbrunner/rl/internal/importer"
)

func TestParseHTML_SingleLink(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	links, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	l := links[0]
	if l.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", l.Title)
	}
	if l.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", l.URL)
	}
	if l.Folder != "" {
		t.Errorf("expected root folder, got %q", l.Folder)
	}
	if l.AddedAt.Unix() != 1234567890 {
		t.Errorf("expected ADD_DATE 1234567890, got %d", l.AddedAt.Unix())
	}
}

func TestParseHTML_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	links, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"React Docs": "Development/React",
		"GitHub":     "Development",
		"Google":     "",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d", len(want), len(links))
	}
	for _, l := range links {
		folder, ok := want[l.Title]
		if !ok {
			t.Errorf("unexpected link %q", l.Title)
			continue
		}
		if l.Folder != folder {
			t.Errorf("%s: expected folder %q, got %q", l.Title, folder, l.Folder)
		}
	}

	// document order
	if links[0].Title != "React Docs" || links[2].Title != "Google" {
		t.Errorf("links out of order: %q ... %q", links[0].Title, links[2].Title)
	}
}

func TestParseHTML_SkipsEmptyHrefAndKeepsBlankTitle(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="">Nothing</A>
    <DT><A HREF="https://no-title.com"></A>
    <DT><A HREF="https://bad-date.com" ADD_DATE="yesterday">Bad Date</A>
</DL>`

	links, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Title != "" {
		t.Errorf("expected blank title to stay blank, got %q", links[0].Title)
	}
	if !links[1].AddedAt.IsZero() {
		t.Errorf("expected zero AddedAt for malformed ADD_DATE, got %v", links[1].AddedAt)
	}
}

func TestParseHTML_Empty(t *testing.T) {
	links, err := importer.ParseHTML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("expected no links, got %d", len(links))
	}
}

func TestInFolder(t *testing.T) {
	links := []importer.Link{
		{URL: "https://a.com", Folder: ""},
		{URL: "https://b.com", Folder: "Reading"},
		{URL: "https://c.com", Folder: "Reading/Later"},
		{URL: "https://d.com", Folder: "Readings"},
	}

	got := importer.InFolder(links, "reading")
	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d", len(got))
	}
	if got[0].URL != "https://b.com" || got[1].URL != "https://c.com" {
		t.Errorf("unexpected links: %v", got)
	}

	if got := importer.InFolder(links, ""); len(got) != 4 {
		t.Errorf("expected empty folder to keep all links, got %d", len(got))
	}
}
