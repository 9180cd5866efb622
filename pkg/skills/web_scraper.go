package skills

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/invopop/jsonschema"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
)

// WebScraper extracts structured data from web pages with CSS selectors.
//
// Actions:
//   - extract_meta: fetch a page and return its title, description, and Open Graph tags
//   - extract_elements: fetch a page and return the elements matching a CSS selector
type WebScraper struct {
	skill.Meta

	client *http.Client
}

// WebScraperInput is the parameter struct shared by all web-scraper actions.
type WebScraperInput struct {
	URL      string            `json:"url" jsonschema:"description=The URL to scrape"`
	Selector string            `json:"selector,omitempty" jsonschema:"description=CSS selector for extract_elements"`
	Timeout  float64           `json:"timeout,omitempty" jsonschema:"description=Request timeout in seconds,default=10"`
	Headers  map[string]string `json:"headers,omitempty" jsonschema:"description=Additional request headers"`
}

// NewWebScraper creates the web-scraper skill.
func NewWebScraper() *WebScraper {
	return &WebScraper{
		Meta:   skill.NewMeta("web-scraper", "1.0.0", "Scrape metadata and elements from web pages using CSS selectors"),
		client: &http.Client{},
	}
}

// ActionSchemas returns the parameter schema for each supported action.
func (s *WebScraper) ActionSchemas() map[string]*jsonschema.Schema {
	schema := skill.GenerateSchema[WebScraperInput]()
	return map[string]*jsonschema.Schema{
		"extract_meta":     schema,
		"extract_elements": schema,
	}
}

// Process runs one web-scraper action.
func (s *WebScraper) Process(ctx context.Context, action string, params skill.Params) (skill.Params, error) {
	var input WebScraperInput
	if err := decodeParams(params, &input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, errors.New("missing required parameter: url")
	}

	switch action {
	case "extract_meta":
		return s.extractMeta(ctx, input)
	case "extract_elements":
		return s.extractElements(ctx, input)
	default:
		return nil, errors.Errorf("unknown action: %s", action)
	}
}

func (s *WebScraper) extractMeta(ctx context.Context, input WebScraperInput) (skill.Params, error) {
	doc, finalURL, err := s.fetchDocument(ctx, input)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")

	ogTags := map[string]string{}
	doc.Find("meta[property]").Each(func(_ int, sel *goquery.Selection) {
		prop, _ := sel.Attr("property")
		if !strings.HasPrefix(prop, "og:") {
			return
		}
		content, _ := sel.Attr("content")
		ogTags[prop] = content
	})

	return skill.Params{
		"url":         finalURL,
		"title":       title,
		"description": description,
		"og_tags":     ogTags,
	}, nil
}

func (s *WebScraper) extractElements(ctx context.Context, input WebScraperInput) (skill.Params, error) {
	if input.Selector == "" {
		return nil, errors.New("missing required parameter: selector")
	}

	doc, finalURL, err := s.fetchDocument(ctx, input)
	if err != nil {
		return nil, err
	}

	elements := []map[string]any{}
	doc.Find(input.Selector).Each(func(_ int, sel *goquery.Selection) {
		attrs := map[string]string{}
		if len(sel.Nodes) > 0 {
			for _, attr := range sel.Nodes[0].Attr {
				attrs[attr.Key] = attr.Val
			}
		}
		elements = append(elements, map[string]any{
			"tag":   goquery.NodeName(sel),
			"text":  strings.TrimSpace(sel.Text()),
			"attrs": attrs,
		})
	})

	return skill.Params{
		"url":           finalURL,
		"selector":      input.Selector,
		"elements":      elements,
		"element_count": len(elements),
	}, nil
}

func (s *WebScraper) fetchDocument(ctx context.Context, input WebScraperInput) (*goquery.Document, string, error) {
	resp, err := fetchPage(ctx, s.client, input.URL, input.Timeout, input.Headers)
	if err != nil {
		return nil, "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.body))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to parse HTML")
	}
	return doc, resp.url, nil
}
