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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()

	require.Len(t, seed, 3)
	assert.Equal(t, "Maria Silva", seed[0].Name)
	assert.Equal(t, "João Santos", seed[1].Name)
	assert.Equal(t, "Ana Souza", seed[2].Name)
	for _, p := range seed {
		assert.NoError(t, validatePerson(p), p.Name)
	}

	// Callers may mutate the result freely.
	seed[0].Name = "changed"
	assert.Equal(t, "Maria Silva", DefaultSeed()[0].Name)
}

func TestLoadSeed_EmptyPathUsesDefault(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), seed)
}

func TestLoadSeed_File(t *testing.T) {
	path := writeSeed(t, `
people:
  - name: Carlos Lima
    sex: Masculino
    age: 40
    condition: Aposentado
    note: Mora sozinho.
  - name: Beatriz
    age: 8
`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, []Person{
		{Name: "Carlos Lima", Sex: "Masculino", Age: 40, Condition: "Aposentado", Note: "Mora sozinho."},
		{Name: "Beatriz", Age: 8},
	}, seed)
}

func TestLoadSeed_NoRecords(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, "people: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, seed)
	assert.Empty(t, seed)

	seed, err = LoadSeed(writeSeed(t, "# nothing here\n"))
	require.NoError(t, err)
	assert.Empty(t, seed)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"missing name", "people:\n  - age: 30\n", ErrInvalidSeed},
		{"zero age", "people:\n  - name: Zero\n    age: 0\n", ErrInvalidSeed},
		{"bad yaml", "people: [\n", ErrInvalidSeed},
		{"age not a number", "people:\n  - name: X\n    age: trinta\n", ErrInvalidSeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(writeSeed(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
