// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Project is a named collection of papers. A duplicate report can be
// scoped to one project.
type Project struct {
	// Name uniquely identifies the project.
	Name string `json:"name" yaml:"name"`

	// Description is free text shown in listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// CreatedAt is when the project was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Papers is the number of papers in the project.
	Papers int `json:"papers" yaml:"papers"`
}
