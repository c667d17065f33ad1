// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UniqueID asks the server to generate the resource ID.
const UniqueID = "unique()"

var customIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

const validationErrorInvalidID = "must be unique() or up to 36 characters of a-z, A-Z, 0-9, period, hyphen and underscore, not starting with a special character"

// IDRule validates a resource ID flag value.
var IDRule = validation.By(func(value interface{}) error {
	s, err := validation.EnsureString(value)
	if err != nil {
		return err
	}
	if s == UniqueID {
		return nil
	}
	if len(s) == 0 || len(s) > 36 || !customIDPattern.MatchString(s) {
		return errors.New(validationErrorInvalidID)
	}
	return nil
})

// ValidateID checks that id is unique() or a valid custom ID.
func ValidateID(id string) error {
	return validation.Validate(id, validation.Required, IDRule)
}
