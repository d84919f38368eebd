package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"practicelog/internal/feed"
	"practicelog/internal/models"
	"practicelog/internal/repository"
)

// ErrMalformedPage is returned when a page has no .content element.
var ErrMalformedPage = errors.New("page has no content element")

// "1. Two Sum", "LCR 031. LRU 缓存"
var headingPattern = regexp.MustCompile(`^\s*([\w\s]+?)\.\s*(.+?)\s*$`)

// linkBase resolves relative problem links the way a browser viewing the
// page on leetcode.cn would.
var linkBase = &url.URL{Scheme: "https", Host: "leetcode.cn", Path: "/"}

type QuestionPageService struct {
	source feed.Source
	cache  *repository.PageCache
	logger *zap.Logger
}

func NewQuestionPageService(source feed.Source, cache *repository.PageCache, logger *zap.Logger) *QuestionPageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionPageService{source: source, cache: cache, logger: logger}
}

// Get fetches and parses the page behind file. The reference is passed to
// the source verbatim.
func (s *QuestionPageService) Get(ctx context.Context, file string) (*models.QuestionPage, error) {
	if strings.TrimSpace(file) == "" {
		return nil, &ValidationError{Fields: map[string]string{"file": "file is required"}}
	}

	if cached, err := s.cache.Get(ctx, file); err != nil {
		s.logger.Warn("page cache read failed", zap.String("file", file), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	data, err := s.source.Fetch(ctx, file)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return nil, &NotFoundError{Message: "Question page not found"}
		}
		return nil, &UpstreamError{Message: "Failed to fetch question page", Err: err}
	}

	page, err := ParseQuestionPage(file, bytes.NewReader(data))
	if err != nil {
		return nil, &UpstreamError{Message: "Failed to parse question page", Err: err}
	}

	if err := s.cache.Set(ctx, page); err != nil {
		s.logger.Warn("page cache write failed", zap.String("file", file), zap.Error(err))
	}
	return page, nil
}

// Expand returns the question details of one record. Early records point at
// a single page holding every question; later ones list a page per question.
func (s *QuestionPageService) Expand(ctx context.Context, rec models.SessionRecord) ([]models.QuestionDetail, error) {
	details := []models.QuestionDetail{}

	if len(rec.Questions) == 0 {
		if rec.File == "" {
			return details, nil
		}
		page, err := s.Get(ctx, rec.File)
		if err != nil {
			return nil, err
		}
		return append(details, page.Questions...), nil
	}

	for _, q := range rec.Questions {
		if q.File == "" {
			details = append(details, models.QuestionDetail{
				Number:          string(q.Number),
				Title:           q.Title,
				Difficulty:      q.Difficulty,
				DifficultyLabel: q.Difficulty.Label(),
			})
			continue
		}
		page, err := s.Get(ctx, q.File)
		if err != nil {
			return nil, err
		}
		details = append(details, page.Questions...)
	}
	return details, nil
}

// ParseQuestionPage splits the page's .content element at <hr> and parses
// every non-empty segment into a QuestionDetail.
func ParseQuestionPage(file string, r io.Reader) (*models.QuestionPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	content := findContent(doc)
	if content == nil {
		return nil, ErrMalformedPage
	}

	page := &models.QuestionPage{File: file, Questions: []models.QuestionDetail{}}

	var segment []*html.Node
	flush := func() error {
		defer func() { segment = nil }()
		if isBlank(segment) {
			return nil
		}
		q, err := parseSegment(segment)
		if err != nil {
			return err
		}
		page.Questions = append(page.Questions, q)
		return nil
	}

	for c := content.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Hr {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		segment = append(segment, c)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return page, nil
}

func parseSegment(nodes []*html.Node) (models.QuestionDetail, error) {
	var q models.QuestionDetail

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return q, fmt.Errorf("failed to render segment: %w", err)
		}
	}
	q.HTML = strings.TrimSpace(buf.String())

	if h1 := findFirst(nodes, func(n *html.Node) bool { return n.DataAtom == atom.H1 }); h1 != nil {
		heading := strings.TrimSpace(textOf(h1))
		if m := headingPattern.FindStringSubmatch(heading); m != nil {
			q.Number = strings.TrimSpace(m[1])
			q.Title = m[2]
		} else {
			q.Title = heading
		}
	}

	isP := func(n *html.Node) bool { return n.DataAtom == atom.P }
	if p := findFirst(nodes, func(n *html.Node) bool {
		text := textOf(n)
		return isP(n) && (strings.Contains(text, "难度") || strings.Contains(text, "Difficulty"))
	}); p != nil {
		q.Difficulty = models.DetectDifficulty(textOf(p))
	}
	q.DifficultyLabel = q.Difficulty.Label()

	if p := findFirst(nodes, func(n *html.Node) bool {
		text := textOf(n)
		return isP(n) && (strings.Contains(text, "链接") || strings.Contains(text, "Link"))
	}); p != nil {
		if a := findFirst([]*html.Node{p}, func(n *html.Node) bool { return n.DataAtom == atom.A }); a != nil {
			q.URL = resolveLink(getAttr(a, "href"))
		}
	}

	return q, nil
}

func resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return linkBase.ResolveReference(ref).String()
}

func findContent(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, "content") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findContent(c); found != nil {
			return found
		}
	}
	return nil
}

// findFirst walks nodes depth-first and returns the first element match.
func findFirst(nodes []*html.Node, match func(*html.Node) bool) *html.Node {
	for _, n := range nodes {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		if found := findFirst(children, match); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}

func isBlank(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return false
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
