package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Link is one <A> entry of a Netscape bookmark file.
type Link struct {
	URL   string
	Title string // empty when the anchor has no text
	// Folder is the slash-joined path of enclosing folders, "" at the root.
	Folder  string
	AddedAt time.Time // zero when ADD_DATE is missing or malformed
}

// ParseHTML parses Netscape bookmark HTML and returns its links in document
// order. Links are not validated here.
func ParseHTML(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []Link

	// Track current folder stack for hierarchy
	var folderStack []string
	pendingFolder := "" // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Folder name; its contents follow in the next DL
				pendingFolder = getTextContent(n)
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}

				var addedAt time.Time
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						addedAt = time.Unix(ts, 0)
					}
				}

				links = append(links, Link{
					URL:     href,
					Title:   getTextContent(n),
					Folder:  strings.Join(folderStack, "/"),
					AddedAt: addedAt,
				})
				return

			case "dl":
				pushedFolder := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return links, nil
}

// InFolder keeps the links whose folder path is folder or lies beneath it.
// Matching ignores case.
func InFolder(links []Link, folder string) []Link {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return links
	}

	var out []Link
	for _, l := range links {
		if strings.EqualFold(l.Folder, folder) ||
			strings.HasPrefix(strings.ToLower(l.Folder), strings.ToLower(folder)+"/") {
			out = append(out, l)
		}
	}
	return out
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
