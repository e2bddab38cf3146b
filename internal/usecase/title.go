package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/domain/model"
)

const (
	defaultTitle          = "Procurement Request"
	maxTitleRunes         = 80
	maxFallbackTitleRunes = 50
	maxTitleLines         = 5
	maxTitleLineRunes     = 80
)

var titleSchema = model.Schema{
	Name: "title_suggestion",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "Short title, about 70 characters at most"},
		},
		"required":             []string{"title"},
		"additionalProperties": false,
	},
}

// TitleSuggester proposes a short request title.
type TitleSuggester struct {
	oracle  Oracle
	timeout time.Duration
	logger  *zap.Logger
}

// NewTitleSuggester constructs TitleSuggester.
func NewTitleSuggester(oracle Oracle, cfg *config.Config, logger *zap.Logger) *TitleSuggester {
	return &TitleSuggester{oracle: oracle, timeout: cfg.OracleTimeout, logger: logger}
}

// Suggest returns an oracle title of at most 80 characters, or a title derived
// from the first line or the vendor when the oracle cannot help.
func (s *TitleSuggester) Suggest(ctx context.Context, vendor, department string, lines []model.OrderLine) string {
	in := model.TitleInput{Vendor: strings.TrimSpace(vendor), Department: strings.TrimSpace(department)}
	for _, l := range lines {
		if len(in.Descriptions) == maxTitleLines {
			break
		}
		in.Descriptions = append(in.Descriptions, truncateRunes(strings.TrimSpace(l.Description), maxTitleLineRunes))
	}

	title, err := s.ask(ctx, in)
	if err != nil {
		s.logger.Info("title suggestion fell back to local rule", zap.Error(err))
		return FallbackTitle(vendor, lines)
	}
	title = truncateRunes(strings.TrimSpace(title), maxTitleRunes)
	if title == "" {
		return FallbackTitle(vendor, lines)
	}
	return title
}

func (s *TitleSuggester) ask(ctx context.Context, in model.TitleInput) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var items []string
	for _, d := range in.Descriptions {
		if d != "" {
			items = append(items, d)
		}
	}
	prompt := model.Prompt{
		User: fmt.Sprintf(
			"Write a short title for a procurement request.\nRules: short, clear, no personal data.\nVendor: %s\nDepartment: %s\nItems: %s\n",
			in.Vendor, in.Department, strings.Join(items, "; "),
		),
	}

	var out struct {
		Title string `json:"title"`
	}
	if err := s.oracle.Request(ctx, prompt, titleSchema, &out); err != nil {
		return "", err
	}
	return out.Title, nil
}

// FallbackTitle uses the first line description, then the vendor, then a fixed default.
func FallbackTitle(vendor string, lines []model.OrderLine) string {
	if len(lines) > 0 {
		if d := strings.TrimSpace(truncateRunes(strings.TrimSpace(lines[0].Description), maxFallbackTitleRunes)); d != "" {
			return d
		}
	}
	if v := strings.TrimSpace(truncateRunes(strings.TrimSpace(vendor), maxFallbackTitleRunes)); v != "" {
		return v
	}
	return defaultTitle
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
