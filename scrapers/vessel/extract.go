package vessel

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
)

// Field name for the vessel title taken from the asset header
const FieldShipName = "Ship Name"

// These appear as title/content pairs lower on the page but are already
// taken from the label/value pairs at the top.
var excludedTitles = map[string]bool{
	"Asset type":    true,
	"Flag":          true,
	"Date of build": true,
	"Gross tonnage": true,
}

// ExtractFields parses rendered registry markup into a FieldMap
func ExtractFields(markup string) (models.FieldMap, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.FieldMap{}, err
	}
	return ExtractDocument(doc), nil
}

// ExtractDocument collects the ship name and every detail section field.
// Missing structure leaves the field out; later sections overwrite earlier ones.
func ExtractDocument(doc *goquery.Document) models.FieldMap {
	data := models.NewFieldMap()

	if ship := doc.Find("md-ink-ripple.asset-name").First(); ship.Length() > 0 {
		if name := strings.TrimSpace(ship.AttrOr("title", "")); name != "" {
			data.Set(FieldShipName, name)
		}
	}

	doc.Find("div.detail").Each(func(i int, section *goquery.Selection) {
		// Top of the page: <span class="label">Flag:</span> <strong>Panama</strong>
		label := section.Find("span.label").First()
		value := section.Find("strong").First()
		if label.Length() > 0 && value.Length() > 0 {
			header := strings.TrimRight(strippedText(label), ":")
			data.Set(header, strippedText(value))
		}

		// Bottom of the page: <div class="title">..</div> <div class="content">..</div>
		title := section.Find("div.title").First()
		content := section.Find("div.content").First()
		if title.Length() > 0 && content.Length() > 0 {
			header := strippedText(title)
			if !excludedTitles[header] {
				data.Set(header, strippedText(content))
			}
		}
	})

	return data
}

// strippedText trims every text node under the selection and joins them
// without a separator.
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
