// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research library engine:
// bibliographic records, duplicate report rows, and configuration.
package types

// Record is an immutable snapshot of one paper for the duration of a
// duplicate report run. Optional fields use their zero value for "absent".
type Record struct {
	// ID is the opaque, unique identifier of the paper in the library.
	ID string `json:"id" yaml:"id" parquet:"id"`

	// Title is the paper title as stored. May be empty.
	Title string `json:"title" yaml:"title" parquet:"title"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty" parquet:"year,optional"`

	// Venue is the journal, conference, or preprint server.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty" parquet:"venue,optional"`

	// DOI is the Digital Object Identifier in any casing, with or without
	// a resolver prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty" parquet:"doi,optional"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty" parquet:"authors,list"`
}

