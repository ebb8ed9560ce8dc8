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
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// personForm is the form-encoded body of /add, /update and /delete.
//
// Every field binds as a string so that a malformed number can never fail
// binding; numbers are coerced afterwards.
type personForm struct {
	ID        string `form:"id"`
	Name      string `form:"nome"`
	Sex       string `form:"sexo"`
	Age       string `form:"idade"`
	Condition string `form:"condicao"`
	Note      string `form:"observacao"`
}

// bindPersonForm reads the request form. A body that cannot be parsed
// yields an empty form, which every handler treats as a no-op input.
func bindPersonForm(c *gin.Context) (personForm, error) {
	var f personForm
	if err := c.ShouldBind(&f); err != nil {
		return personForm{}, err
	}
	return f, nil
}

// person converts the form into a Person.
//
// # Outputs
//
//   - Person: The record as submitted. Age is 0 when idade is missing or
//     not an integer.
//   - bool: false when idade was present but could not be coerced.
func (f personForm) person() (Person, bool) {
	age, ok := coerceInt(f.Age)
	if f.Age == "" {
		ok = true
	}
	return Person{
		Name:      f.Name,
		Sex:       f.Sex,
		Age:       age,
		Condition: f.Condition,
		Note:      f.Note,
	}, ok
}

// recordID returns the submitted record ID, or false when it is missing
// or not an integer.
func (f personForm) recordID() (int, bool) {
	if strings.TrimSpace(f.ID) == "" {
		return 0, false
	}
	return coerceInt(f.ID)
}

// coerceInt parses a decimal integer, ignoring surrounding whitespace.
// Anything else yields (0, false).
func coerceInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
