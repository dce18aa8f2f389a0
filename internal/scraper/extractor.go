package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wikiquiz/internal/domain"
)

const (
	// maxFullTextLen keeps the flattened article text within the model's
	// token budget.
	maxFullTextLen   = 8000
	truncationMarker = "\n\n[Content truncated for processing...]"

	// minSummaryLen filters out short or empty lead paragraphs.
	minSummaryLen = 80

	defaultTitle   = "Unknown Title"
	defaultSummary = "No summary available."
)

// skipSections are meta sections that carry no quizzable content.
var skipSections = map[string]struct{}{
	"See also":        {},
	"References":      {},
	"External links":  {},
	"Further reading": {},
	"Notes":           {},
	"Bibliography":    {},
	"Sources":         {},
	"Citations":       {},
	"Footnotes":       {},
}

var (
	citationPattern   = regexp.MustCompile(`\[\d+\]`)
	bracketPattern    = regexp.MustCompile(`\[.*?\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips citation markers like [1], any other bracketed
// annotations, and collapses whitespace runs to single spaces.
func CleanText(text string) string {
	text = citationPattern.ReplaceAllString(text, "")
	text = bracketPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SectionExtractor parses raw Wikipedia HTML into structured article content.
type SectionExtractor struct{}

// NewSectionExtractor creates a SectionExtractor.
func NewSectionExtractor() *SectionExtractor {
	return &SectionExtractor{}
}

// Extract parses rawHTML into an ArticleContent. It fails only when the
// main content container is missing; a missing title never fails.
func (e *SectionExtractor) Extract(url, rawHTML string) (*domain.ArticleContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, domain.NewExtractionError("Could not parse article HTML", err)
	}

	title := extractTitle(doc)

	content := doc.Find("div#mw-content-text").First()
	if content.Length() == 0 {
		return nil, domain.NewExtractionError("Could not find article content on the page.", nil)
	}

	// Summary: first paragraph with substantial text
	summary := ""
	content.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := CleanText(p.Text())
		if len(text) > minSummaryLen {
			summary = text
			return false
		}
		return true
	})

	sections := []string{}
	textParts := []string{summary}

	content.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		headingText := headingLabel(heading)
		if headingText == "" {
			return
		}
		if _, skip := skipSections[headingText]; skip {
			return
		}

		if goquery.NodeName(heading) == "h2" {
			sections = append(sections, headingText)
		}

		// Collect paragraph text from siblings until the next heading
		var sectionTextParts []string
		heading.NextUntil("h2, h3").Each(func(_ int, sibling *goquery.Selection) {
			if goquery.NodeName(sibling) != "p" {
				return
			}
			if clean := CleanText(sibling.Text()); clean != "" {
				sectionTextParts = append(sectionTextParts, clean)
			}
		})

		if len(sectionTextParts) > 0 {
			textParts = append(textParts, "\n\n## "+headingText+"\n"+strings.Join(sectionTextParts, " "))
		}
	})

	fullText := strings.Join(textParts, "\n")
	if len(fullText) > maxFullTextLen {
		fullText = fullText[:maxFullTextLen] + truncationMarker
	}

	if summary == "" {
		summary = defaultSummary
	}
	if len(sections) == 0 {
		sections = []string{"General"}
	}

	return &domain.ArticleContent{
		URL:      url,
		Title:    title,
		Summary:  summary,
		Sections: sections,
		FullText: fullText,
		RawHTML:  rawHTML,
	}, nil
}

// ExtractTitle parses only the article title out of rawHTML, for the fast
// URL preview path.
func (e *SectionExtractor) ExtractTitle(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", domain.NewExtractionError("Could not parse article HTML", err)
	}
	return extractTitle(doc), nil
}

func extractTitle(doc *goquery.Document) string {
	titleTag := doc.Find("h1#firstHeading").First()
	if titleTag.Length() == 0 {
		titleTag = doc.Find("span.mw-page-title-main").First()
	}
	if titleTag.Length() == 0 {
		return defaultTitle
	}
	title := strings.TrimSpace(titleTag.Text())
	if title == "" {
		return defaultTitle
	}
	return title
}

// headingLabel derives a section label from a heading element. Wikipedia
// markup varies: older pages wrap the label in span.mw-headline, newer
// ones put the text straight on the heading with an "[edit]" suffix.
func headingLabel(heading *goquery.Selection) string {
	if headline := heading.Find("span.mw-headline").First(); headline.Length() > 0 {
		return strings.TrimSpace(headline.Text())
	}
	text := strings.ReplaceAll(heading.Text(), "[edit]", "")
	return strings.TrimSpace(text)
}
