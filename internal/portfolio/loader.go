// Package portfolio supplies the engines with input datasets: a YAML loader
// for externally produced portfolios and a seeded generator for synthetic
// ones.
package portfolio

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aristath/bulwark/internal/domain"
)

// File is one loaded portfolio: every dataset the assessment pipeline
// consumes. Any section may be empty; an absent own_funds section leaves
// OwnFunds nil and sends the aggregator down the synthetic path.
type File struct {
	Exposures  []domain.Exposure   `yaml:"exposures" validate:"omitempty,dive"`
	Positions  []domain.Position   `yaml:"positions" validate:"omitempty,dive"`
	Trades     []domain.Trade      `yaml:"trades" validate:"omitempty,dive"`
	Collateral []domain.Collateral `yaml:"collateral" validate:"omitempty,dive"`
	OwnFunds   *domain.OwnFunds    `yaml:"own_funds"`
}

var validate = validator.New()

// LoadFile reads and structurally validates one portfolio file. Semantic
// validation (regulatory numeric domains, cross-record rules) stays with the
// engines; the loader only rejects files that are malformed at the schema
// level.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portfolio file %s: %w", path, err)
	}
	return &f, nil
}

// Validate runs the structural tag rules over every section.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("failed to validate portfolio: %w", err)
	}
	return nil
}
