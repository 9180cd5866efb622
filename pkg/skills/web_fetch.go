package skills

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/invopop/jsonschema"
	"github.com/openclaw/go-skills/pkg/logger"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
)

var (
	linkPattern = regexp.MustCompile(`(?i)<a\s+[^>]*href=["']([^"']+)["']`)
	// RE2 has no backreferences, so the closing tag is matched loosely.
	scriptStylePattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagPattern         = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// WebFetch retrieves web pages and extracts content from them.
//
// Actions:
//   - fetch: fetch a page and return its raw body
//   - extract_links: fetch a page and return the href targets of its anchors
//   - extract_text: fetch a page and return its visible text
//   - fetch_markdown: fetch a page and convert HTML to markdown
type WebFetch struct {
	skill.Meta

	client *http.Client
}

// WebFetchInput is the parameter struct shared by all web-fetch actions.
type WebFetchInput struct {
	URL     string            `json:"url" jsonschema:"description=The URL to fetch"`
	Timeout float64           `json:"timeout,omitempty" jsonschema:"description=Request timeout in seconds,default=10"`
	Headers map[string]string `json:"headers,omitempty" jsonschema:"description=Additional request headers"`
}

// NewWebFetch creates the web-fetch skill.
func NewWebFetch() *WebFetch {
	return &WebFetch{
		Meta:   skill.NewMeta("web-fetch", "1.0.0", "Fetch web pages and extract links, text, or markdown"),
		client: &http.Client{},
	}
}

// ActionSchemas returns the parameter schema for each supported action.
func (s *WebFetch) ActionSchemas() map[string]*jsonschema.Schema {
	schema := skill.GenerateSchema[WebFetchInput]()
	return map[string]*jsonschema.Schema{
		"fetch":          schema,
		"extract_links":  schema,
		"extract_text":   schema,
		"fetch_markdown": schema,
	}
}

// Process runs one web-fetch action.
func (s *WebFetch) Process(ctx context.Context, action string, params skill.Params) (skill.Params, error) {
	var input WebFetchInput
	if err := decodeParams(params, &input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, errors.New("missing required parameter: url")
	}

	switch action {
	case "fetch":
		return s.fetch(ctx, input)
	case "extract_links":
		return s.extractLinks(ctx, input)
	case "extract_text":
		return s.extractText(ctx, input)
	case "fetch_markdown":
		return s.fetchMarkdown(ctx, input)
	default:
		return nil, errors.Errorf("unknown action: %s", action)
	}
}

func (s *WebFetch) fetch(ctx context.Context, input WebFetchInput) (skill.Params, error) {
	resp, err := fetchPage(ctx, s.client, input.URL, input.Timeout, input.Headers)
	if err != nil {
		return nil, err
	}

	return skill.Params{
		"url":            resp.url,
		"status_code":    resp.statusCode,
		"content_type":   resp.contentType,
		"content":        resp.body,
		"content_length": len(resp.body),
	}, nil
}

func (s *WebFetch) extractLinks(ctx context.Context, input WebFetchInput) (skill.Params, error) {
	resp, err := fetchPage(ctx, s.client, input.URL, input.Timeout, input.Headers)
	if err != nil {
		return nil, err
	}

	links := []string{}
	for _, match := range linkPattern.FindAllStringSubmatch(resp.body, -1) {
		links = append(links, match[1])
	}

	return skill.Params{
		"url":        resp.url,
		"links":      links,
		"link_count": len(links),
	}, nil
}

func (s *WebFetch) extractText(ctx context.Context, input WebFetchInput) (skill.Params, error) {
	resp, err := fetchPage(ctx, s.client, input.URL, input.Timeout, input.Headers)
	if err != nil {
		return nil, err
	}

	text := scriptStylePattern.ReplaceAllString(resp.body, "")
	text = tagPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return skill.Params{
		"url":         resp.url,
		"text":        text,
		"text_length": utf8.RuneCountInString(text),
	}, nil
}

func (s *WebFetch) fetchMarkdown(ctx context.Context, input WebFetchInput) (skill.Params, error) {
	resp, err := fetchPage(ctx, s.client, input.URL, input.Timeout, input.Headers)
	if err != nil {
		return nil, err
	}

	markdown := resp.body
	if strings.Contains(resp.contentType, "text/html") {
		converter := md.NewConverter("", true, nil)
		converted, err := converter.ConvertString(resp.body)
		if err != nil {
			logger.G(ctx).WithError(err).Warn("failed to convert HTML to markdown, returning raw content")
		} else {
			markdown = converted
		}
	}

	return skill.Params{
		"url":             resp.url,
		"markdown":        markdown,
		"markdown_length": utf8.RuneCountInString(markdown),
	}, nil
}
