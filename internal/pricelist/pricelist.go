// Package pricelist reads supplier price-list documents.
//
// A price list is a YAML file with the shop name, the categories it sells in
// and its goods. Files are addressed by a url-like string whose last two path
// segments name a directory and a file under a configured base directory; no
// remote fetch is performed.
package pricelist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidURL      = errors.New("price list url must contain a directory and a file name")
	ErrFileNotFound    = errors.New("price list file does not exist")
	ErrInvalidDocument = errors.New("price list document is invalid")
)

var validate = validator.New()

// Document is the decoded price list.
type Document struct {
	Shop       string     `yaml:"shop" validate:"required,max=50"`
	Categories []Category `yaml:"categories" validate:"dive"`
	Goods      []Good     `yaml:"goods" validate:"dive"`
}

type Category struct {
	ID   int64  `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required,max=40"`
}

type Good struct {
	ID         int64             `yaml:"id" validate:"required"`
	Category   int64             `yaml:"category" validate:"required"`
	Model      string            `yaml:"model" validate:"max=80"`
	Name       string            `yaml:"name" validate:"required,max=80"`
	Price      decimal.Decimal   `yaml:"price"`
	PriceRRC   decimal.Decimal   `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity" validate:"gte=0"`
	Parameters map[string]string `yaml:"parameters"`
}

// Resolve maps a price-list url onto a file under baseDir using the last two
// path segments of the url.
func Resolve(baseDir, rawURL string) (string, error) {
	parts := strings.Split(strings.TrimSpace(rawURL), "/")
	if len(parts) < 2 {
		return "", ErrInvalidURL
	}

	dir, file := parts[len(parts)-2], parts[len(parts)-1]
	if file == "" || dir == "" || dir == ".." || file == ".." || dir == "." {
		return "", ErrInvalidURL
	}

	return filepath.Join(baseDir, dir, file), nil
}

// Decode parses and validates a YAML price list.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse price list: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Load opens path and decodes it. A missing file yields ErrFileNotFound.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open price list: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Validate checks field constraints and that every good references a
// declared category.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	declared := make(map[int64]bool, len(d.Categories))
	for _, c := range d.Categories {
		declared[c.ID] = true
	}

	for _, g := range d.Goods {
		if g.Price.IsNegative() || g.PriceRRC.IsNegative() {
			return fmt.Errorf("%w: good %d has a negative price", ErrInvalidDocument, g.ID)
		}
		if !declared[g.Category] {
			return fmt.Errorf("%w: good %d references undeclared category %d", ErrInvalidDocument, g.ID, g.Category)
		}
	}

	return nil
}
