// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the records a fresh registry starts with.
// They receive IDs 1, 2 and 3, so the first added record gets ID 4.
func DefaultSeed() []Person {
	return []Person{
		{
			Name:      "Maria Silva",
			Sex:       "Feminino",
			Age:       35,
			Condition: "Desempregada",
			Note:      "Precisa de ajuda com alimentação.",
		},
		{
			Name:      "João Santos",
			Sex:       "Masculino",
			Age:       50,
			Condition: "Em situação de rua",
			Note:      "Necessita de roupas e abrigo.",
		},
		{
			Name:      "Ana Souza",
			Sex:       "Feminino",
			Age:       22,
			Condition: "Família de baixa renda",
			Note:      "Procura emprego e apoio para os filhos.",
		},
	}
}

// seedFile is the YAML layout of a seed file:
//
//	people:
//	  - name: Maria Silva
//	    sex: Feminino
//	    age: 35
//	    condition: Desempregada
//	    note: Precisa de ajuda com alimentação.
type seedFile struct {
	People []Person `yaml:"people"`
}

// LoadSeed returns the seed records from a YAML file, or DefaultSeed when
// path is empty. An existing file with no records yields an empty seed.
func LoadSeed(path string) ([]Person, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidSeed, path, err)
	}
	for i, p := range f.People {
		if err := validatePerson(p); err != nil {
			return nil, fmt.Errorf("%w: record %d in %s: %v", ErrInvalidSeed, i+1, path, err)
		}
	}
	if f.People == nil {
		return []Person{}, nil
	}
	return f.People, nil
}
