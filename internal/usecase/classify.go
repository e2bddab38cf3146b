package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
)

const fallbackCommodityGroup = "009"

// fallbackRules are checked in order; the first rule with a matching keyword wins.
var fallbackRules = []struct {
	id       string
	keywords []string
}{
	{"015", []string{"logo", "acryl", "schild", "wand", "moos", "begrünung", "deko", "decor", "moss", "greenery"}},
	{"031", []string{"license", "licence", "subscription", "adobe", "software"}},
	{"029", []string{"laptop", "notebook", "server", "hardware"}},
	{"004", []string{"consulting", "berater", "beratung"}},
}

const classificationRules = `You are a procurement expert classifying purchase requests into commodity groups.

Rules:
1) You MUST pick exactly one commodity group from the list below.
2) Pick "019 - Facility Management - Cleaning" ONLY for genuine cleaning services or cleaning supplies.
   Do NOT pick it for greenery, moss walls, interior elements, decoration, branding, signs or acrylic logo panels.
3) Interior, office furnishing and fixed installations usually belong to "015 - Office Equipment".
4) Logos, branding and promotional items usually belong to "043 - Promotional Materials".
5) reasoning_short: one sentence.
6) Decide by the PURPOSE of the purchase.

LIST:
`

var commodityPickSchema = model.Schema{
	Name: "commodity_pick",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"commodity_group_id":   map[string]any{"type": "string"},
			"commodity_group_name": map[string]any{"type": "string"},
			"confidence":           map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"reasoning_short":      map[string]any{"type": "string"},
		},
		"required":             []string{"commodity_group_id", "commodity_group_name", "confidence", "reasoning_short"},
		"additionalProperties": false,
	},
}

// Classifier picks the commodity group for a request.
type Classifier struct {
	oracle  Oracle
	timeout time.Duration
	logger  *zap.Logger
}

// NewClassifier constructs Classifier.
func NewClassifier(oracle Oracle, cfg *config.Config, logger *zap.Logger) *Classifier {
	return &Classifier{oracle: oracle, timeout: cfg.OracleTimeout, logger: logger}
}

// Classify asks the oracle and falls back to keyword rules when the oracle
// fails, times out or answers with something outside the taxonomy. It never fails.
func (c *Classifier) Classify(ctx context.Context, in model.ClassificationInput) model.Classification {
	pick, err := c.pick(ctx, in)
	cls := oracleOrFallback(pick, err, in)
	if cls.Source == model.ClassificationSourceFallback {
		fields := []zap.Field{zap.String("commodity_group_id", cls.ID)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		c.logger.Info("commodity classification fell back to keyword rules", fields...)
	}
	return cls
}

func (c *Classifier) pick(ctx context.Context, in model.ClassificationInput) (*model.CommodityPick, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := model.Prompt{
		System: classificationRules + taxonomy.Text(),
		User:   classificationContext(in),
	}
	var pick model.CommodityPick
	if err := c.oracle.Request(ctx, prompt, commodityPickSchema, &pick); err != nil {
		return nil, err
	}
	return &pick, nil
}

// oracleOrFallback is the only place that decides between the two sources.
func oracleOrFallback(pick *model.CommodityPick, err error, in model.ClassificationInput) model.Classification {
	if err == nil && pick != nil {
		if cls, ok := acceptPick(*pick); ok {
			return cls
		}
	}
	return FallbackClassification(in)
}

func acceptPick(pick model.CommodityPick) (model.Classification, bool) {
	entry, ok := taxonomy.Lookup(pick.ID)
	if !ok {
		return model.Classification{}, false
	}
	if !(pick.Confidence >= 0 && pick.Confidence <= 1) {
		return model.Classification{}, false
	}
	return model.Classification{
		ID:         entry.ID,
		Name:       entry.Name(),
		Confidence: pick.Confidence,
		Rationale:  strings.TrimSpace(pick.Rationale),
		Source:     model.ClassificationSourceOracle,
	}, true
}

// FallbackClassification matches keywords in title, vendor and line descriptions.
// The result is always a taxonomy member.
func FallbackClassification(in model.ClassificationInput) model.Classification {
	parts := []string{in.Title, in.Vendor}
	for _, l := range in.Lines {
		parts = append(parts, l.Description)
	}
	text := strings.ToLower(strings.Join(parts, " "))

	id := fallbackCommodityGroup
	rationale := "no keyword matched, using the default group"
	for _, rule := range fallbackRules {
		if kw, ok := firstKeyword(text, rule.keywords); ok {
			id = rule.id
			rationale = fmt.Sprintf("matched keyword %q", kw)
			break
		}
	}

	entry, _ := taxonomy.Lookup(id)
	return model.Classification{
		ID:        entry.ID,
		Name:      entry.Name(),
		Rationale: rationale,
		Source:    model.ClassificationSourceFallback,
	}
}

func firstKeyword(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

func classificationContext(in model.ClassificationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\nVENDOR: %s\nORDER_LINES:\n", in.Title, in.Vendor)
	if len(in.Lines) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, l := range in.Lines {
		fmt.Fprintf(&b, "- %s (unit_price=%g, qty=%g, unit=%s)\n", l.Description, l.UnitPrice, l.Quantity, l.Unit)
	}
	b.WriteString("\nPick the most fitting commodity group from the list. Decide by purpose.\n")
	return b.String()
}
