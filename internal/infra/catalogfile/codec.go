// Package catalogfile reads and writes YAML catalog files describing
// products, ingredients and their task template trees.
package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/shopdesk/internal/domain"
)

// Ensure Codec implements domain.CatalogCodec.
var _ domain.CatalogCodec = (*Codec)(nil)

// Codec converts catalog YAML to and from domain.CatalogSpec.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// file is the on-disk layout. Money and quantities are strings so that
// values like "4.50" survive without float rounding.
type file struct {
	Ingredients []ingredientEntry `yaml:"ingredients,omitempty"`
	Products    []productEntry    `yaml:"products,omitempty"`
}

type ingredientEntry struct {
	Name      string          `yaml:"name"`
	Unit      string          `yaml:"unit,omitempty"`
	Templates []templateEntry `yaml:"templates,omitempty"`
	Stock     int             `yaml:"stock,omitempty"`
}

type productEntry struct {
	Name        string          `yaml:"name"`
	Price       string          `yaml:"price,omitempty"`
	Ingredients []ingredientRef `yaml:"ingredients,omitempty"`
	Templates   []templateEntry `yaml:"templates,omitempty"`
	Stock       int             `yaml:"stock,omitempty"`
	MinStock    int             `yaml:"min_stock,omitempty"`
}

type ingredientRef struct {
	Name     string `yaml:"name"`
	Quantity string `yaml:"quantity,omitempty"`
}

type templateEntry struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description,omitempty"`
	Priority    string          `yaml:"priority,omitempty"`
	Subtasks    []templateEntry `yaml:"subtasks,omitempty"`
}

// Decode parses catalog YAML. Unknown keys are rejected. An empty document
// decodes to an empty catalog.
func (c *Codec) Decode(data []byte) (*domain.CatalogSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	spec := &domain.CatalogSpec{}
	for _, ing := range f.Ingredients {
		spec.Ingredients = append(spec.Ingredients, domain.IngredientSpec{
			Name:      ing.Name,
			Unit:      ing.Unit,
			Stock:     ing.Stock,
			Templates: fromTemplateEntries(ing.Templates),
		})
	}
	for _, p := range f.Products {
		price, err := parseDecimal(p.Price, decimal.Zero)
		if err != nil {
			return nil, fmt.Errorf("product %q: price: %w", p.Name, err)
		}
		ps := domain.ProductSpec{
			Name:      p.Name,
			Price:     price,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
			Templates: fromTemplateEntries(p.Templates),
		}
		for _, ref := range p.Ingredients {
			qty, err := parseDecimal(ref.Quantity, decimal.NewFromInt(1))
			if err != nil {
				return nil, fmt.Errorf("product %q: ingredient %q: quantity: %w", p.Name, ref.Name, err)
			}
			ps.Ingredients = append(ps.Ingredients, domain.IngredientUse{Name: ref.Name, Quantity: qty})
		}
		spec.Products = append(spec.Products, ps)
	}
	return spec, nil
}

// Encode renders spec as catalog YAML.
func (c *Codec) Encode(spec *domain.CatalogSpec) ([]byte, error) {
	var f file
	for _, ing := range spec.Ingredients {
		f.Ingredients = append(f.Ingredients, ingredientEntry{
			Name:      ing.Name,
			Unit:      ing.Unit,
			Stock:     ing.Stock,
			Templates: toTemplateEntries(ing.Templates),
		})
	}
	for _, p := range spec.Products {
		pe := productEntry{
			Name:      p.Name,
			Price:     p.Price.String(),
			Stock:     p.Stock,
			MinStock:  p.MinStock,
			Templates: toTemplateEntries(p.Templates),
		}
		for _, use := range p.Ingredients {
			pe.Ingredients = append(pe.Ingredients, ingredientRef{Name: use.Name, Quantity: use.Quantity.String()})
		}
		f.Products = append(f.Products, pe)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// parseDecimal returns def for an empty string.
func parseDecimal(s string, def decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return def, nil
	}
	return decimal.NewFromString(s)
}

func fromTemplateEntries(entries []templateEntry) []domain.TemplateSpec {
	if len(entries) == 0 {
		return nil
	}
	specs := make([]domain.TemplateSpec, 0, len(entries))
	for _, e := range entries {
		specs = append(specs, domain.TemplateSpec{
			Title:       e.Title,
			Description: e.Description,
			Priority:    domain.Priority(e.Priority),
			Subtasks:    fromTemplateEntries(e.Subtasks),
		})
	}
	return specs
}

func toTemplateEntries(specs []domain.TemplateSpec) []templateEntry {
	if len(specs) == 0 {
		return nil
	}
	entries := make([]templateEntry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, templateEntry{
			Title:       s.Title,
			Description: s.Description,
			Priority:    string(s.Priority),
			Subtasks:    toTemplateEntries(s.Subtasks),
		})
	}
	return entries
}
