package catalog

import (
	"fmt"
	"strings"
)

// Input is one (material, quantity) requirement of a recipe. The material may
// itself be another recipe's output; it is still priced by catalog name.
type Input struct {
	Material string `yaml:"material" validate:"required"`
	Quantity int    `yaml:"quantity" validate:"gt=0"`
}

// Recipe is a crafting formula for one output item variant.
type Recipe struct {
	Name      string  `yaml:"name" validate:"required"`
	SellValue int     `yaml:"sell" validate:"min=0"`
	Inputs    []Input `yaml:"inputs" validate:"dive"`
	Station   string  `yaml:"station"`
	Notes     string  `yaml:"notes"`
}

// Describe renders the inputs as "7× Metal Parts, 3× Rubber Parts".
func (r Recipe) Describe() string {
	parts := make([]string, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		parts = append(parts, fmt.Sprintf("%d× %s", in.Quantity, in.Material))
	}
	return strings.Join(parts, ", ")
}
