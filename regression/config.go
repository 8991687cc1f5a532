// SPDX-License-Identifier: MIT

package regression

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	opParseModelConfig = "ParseModelConfig"
	opLoadModelConfig  = "LoadModelConfig"
	opConfigBuild      = "ModelConfig.Build"
)

// ModelConfig is the YAML description of a Model over string column keys:
//
//	regressand: price
//	regressors: [x0, x1, x2, Ford, GM]
//	weight: w
//	constraints:
//	  - name: slope
//	    value: 3
//	    terms: {x1: 1, x2: 2}
//	categories:
//	  - name: make
//	    keys: [Ford, GM]
//
// Constraints are declared before categories, each group in file order.
type ModelConfig struct {
	Regressand  string             `yaml:"regressand"`
	Regressors  []string           `yaml:"regressors"`
	Weight      string             `yaml:"weight,omitempty"`
	Constraints []ConstraintConfig `yaml:"constraints,omitempty"`
	Categories  []CategoryConfig   `yaml:"categories,omitempty"`
}

// ConstraintConfig is one explicit equality.
type ConstraintConfig struct {
	Name  string             `yaml:"name"`
	Value float64            `yaml:"value"`
	Terms map[string]float64 `yaml:"terms"`
}

// CategoryConfig is one category constraint.
type CategoryConfig struct {
	Name string   `yaml:"name"`
	Keys []string `yaml:"keys"`
}

// ParseModelConfig decodes YAML into a ModelConfig and builds the Model.
// Unknown fields are rejected.
func ParseModelConfig(data []byte) (Model[string], error) {
	var cfg ModelConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Model[string]{}, regressionErrorf(opParseModelConfig, fmt.Errorf("%w: %w", ErrInvalidArgument, err))
	}

	m, err := cfg.Build()
	if err != nil {
		return Model[string]{}, regressionErrorf(opParseModelConfig, err)
	}

	return m, nil
}

// LoadModelConfig reads and parses a YAML model file.
func LoadModelConfig(path string) (Model[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Model[string]{}, regressionErrorf(opLoadModelConfig, err)
	}

	return ParseModelConfig(data)
}

// Build turns the configuration into a Model. Constraint terms are ordered by
// regressor position; terms naming a non-regressor fail with ErrUnknownKey.
func (c ModelConfig) Build() (Model[string], error) {
	m, err := Build(c.Regressand, c.Regressors)
	if err != nil {
		return Model[string]{}, regressionErrorf(opConfigBuild, err)
	}
	if c.Weight != "" {
		if m, err = m.WithWeight(c.Weight); err != nil {
			return Model[string]{}, regressionErrorf(opConfigBuild, err)
		}
	}
	for _, cc := range c.Constraints {
		keys, coefs := c.orderedTerms(cc.Terms)
		con, err := NewConstraint(cc.Name, cc.Value, keys, coefs)
		if err != nil {
			return Model[string]{}, regressionErrorf(opConfigBuild, err)
		}
		if m, err = m.WithConstraint(con); err != nil {
			return Model[string]{}, regressionErrorf(opConfigBuild, err)
		}
	}
	for _, cat := range c.Categories {
		if m, err = m.AddCategory(cat.Name, cat.Keys); err != nil {
			return Model[string]{}, regressionErrorf(opConfigBuild, err)
		}
	}

	return m, nil
}

// orderedTerms flattens a YAML term map: regressors first in model order,
// then any other keys sorted.
func (c ModelConfig) orderedTerms(terms map[string]float64) ([]string, []float64) {
	keys := make([]string, 0, len(terms))
	for _, k := range c.Regressors {
		if _, ok := terms[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range terms {
		if !slices.Contains(c.Regressors, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	keys = append(keys, extra...)

	coefs := make([]float64, len(keys))
	for i, k := range keys {
		coefs[i] = terms[k]
	}

	return keys, coefs
}
