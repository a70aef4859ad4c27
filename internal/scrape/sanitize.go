package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kennygrant/sanitize"
)

// unwantedSelector removes script/style/media/interactive elements and
// anything wired to inline event handlers from rich text destined for
// storage.
const unwantedSelector = `script, style, noscript, iframe, img, svg, video, audio,
	nav, footer, header, form, input, button, select, textarea,
	.navbar, .menu, .sidebar, .advertisement, .ad, [class*="ad-"], [id*="ad-"],
	.social, .share, .comment, .related,
	[onclick], [onload], [onerror]`

var interTagSpace = regexp.MustCompile(`>\s+<`)

// SanitizeHTML strips a rich-text fragment down to text-bearing markup:
// unwanted elements are removed, event-handler/style/class/id attributes are
// dropped, and inter-tag whitespace is collapsed. A fragment that cannot be
// parsed yields "".
func SanitizeHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find(unwantedSelector).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			var drop []string
			for _, attr := range node.Attr {
				if strings.HasPrefix(attr.Key, "on") ||
					attr.Key == "style" || attr.Key == "class" || attr.Key == "id" {
					drop = append(drop, attr.Key)
				}
			}
			for _, key := range drop {
				s.RemoveAttr(key)
			}
		}
	})

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = interTagSpace.ReplaceAllString(cleaned, "><")
	return strings.TrimSpace(cleaned)
}

// PlainText strips all markup from an HTML fragment and collapses the
// remaining whitespace.
func PlainText(html string) string {
	if html == "" {
		return ""
	}
	return collapseSpace(sanitize.HTML(html))
}
