package insights

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
	"github.com/google/uuid"
)

// Service defines AI-assisted insight operations. The model only ever
// sees aggregated catalog and stock data, never customer records.
type Service interface {
	StockAlerts(ctx context.Context) (*StockAlertReport, error)
	ProductDescription(ctx context.Context, productID string) (*DescriptionResult, error)
}

// StockAlertReport is the model's restocking advice plus the raw data
// it was given.
type StockAlertReport struct {
	Advice      string         `json:"advice"`
	LowVariants []VariantLevel `json:"low_variants"`
	LowFabrics  []FabricLevel  `json:"low_fabrics"`
}

// DescriptionResult is a generated marketing description for a product.
type DescriptionResult struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Description string    `json:"description"`
}

type service struct {
	repo    Repository
	gateway Gateway
	logger  *zap.Logger
}

// NewService creates a new insights service.
func NewService(repo Repository, gateway Gateway, logger *zap.Logger) Service {
	return &service{repo: repo, gateway: gateway, logger: logger}
}

const stockSystemPrompt = "You are an inventory planner for a small fashion atelier. " +
	"Given CSV tables of low product variants and low fabric lots, reply with " +
	"a short, concrete restocking plan in plain prose. Do not invent items."

func (s *service) StockAlerts(ctx context.Context) (*StockAlertReport, error) {
	snap, err := s.repo.StockSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.LowVariants) == 0 && len(snap.LowFabrics) == 0 {
		return &StockAlertReport{Advice: "All stock levels are above their thresholds."}, nil
	}

	prompt := buildStockPrompt(snap)
	advice, err := s.gateway.Complete(ctx, stockSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("stock alert completion failed", zap.Error(err))
		return nil, fmt.Errorf("failed to generate stock advice: %w", err)
	}

	return &StockAlertReport{
		Advice:      stripFences(advice),
		LowVariants: snap.LowVariants,
		LowFabrics:  snap.LowFabrics,
	}, nil
}

const descriptionSystemPrompt = "You are a copywriter for a fashion atelier. " +
	"Write a single-paragraph product description (max 80 words) from the " +
	"given product data. Mention the fabrics if any are listed. Plain text only."

func (s *service) ProductDescription(ctx context.Context, productID string) (*DescriptionResult, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, apperr.Validationf("invalid product id: %s", productID)
	}
	profile, err := s.repo.ProductProfile(ctx, productID)
	if err != nil {
		return nil, err
	}

	text, err := s.gateway.Complete(ctx, descriptionSystemPrompt, buildDescriptionPrompt(profile))
	if err != nil {
		s.logger.Warn("description completion failed",
			zap.String("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate description: %w", err)
	}

	return &DescriptionResult{
		ProductID:   profile.ID,
		ProductName: profile.Name,
		Description: stripFences(text),
	}, nil
}

func buildStockPrompt(snap *StockSnapshot) string {
	var b strings.Builder

	b.WriteString("Low product variants:\n")
	w := csv.NewWriter(&b)
	w.Write([]string{"product", "size", "color", "stock", "min_stock"})
	for _, v := range snap.LowVariants {
		w.Write([]string{v.ProductName, v.Size, v.Color,
			strconv.Itoa(v.Stock), strconv.Itoa(v.MinStock)})
	}
	w.Flush()

	b.WriteString("\nLow fabric lots:\n")
	w = csv.NewWriter(&b)
	w.Write([]string{"fabric", "length_m", "min_length_m", "supplier"})
	for _, f := range snap.LowFabrics {
		w.Write([]string{f.Name,
			strconv.FormatFloat(f.LengthM, 'f', 2, 64),
			strconv.FormatFloat(f.MinM, 'f', 2, 64),
			f.Supplier})
	}
	w.Flush()

	return b.String()
}

func buildDescriptionPrompt(p *ProductProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\nCategory: %s\n", p.Name, p.Category)
	if len(p.Fabrics) > 0 {
		fmt.Fprintf(&b, "Fabrics: %s\n", strings.Join(p.Fabrics, ", "))
	}
	sizes := map[string]bool{}
	colors := map[string]bool{}
	for _, v := range p.Variants {
		if v.Size != "" {
			sizes[v.Size] = true
		}
		if v.Color != "" {
			colors[v.Color] = true
		}
	}
	if len(sizes) > 0 {
		fmt.Fprintf(&b, "Sizes: %s\n", strings.Join(keys(sizes), ", "))
	}
	if len(colors) > 0 {
		fmt.Fprintf(&b, "Colors: %s\n", strings.Join(keys(colors), ", "))
	}
	return b.String()
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// stripFences removes a markdown code fence if the model wrapped its
// reply in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
