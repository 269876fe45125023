// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ReportRow is one possible duplicate pair. Paper1ID always sorts before
// Paper2ID so each unordered pair has exactly one representation.
type ReportRow struct {
	// Score is the similarity of the two papers in [0, 1].
	Score float64 `json:"score" yaml:"score"`

	// Paper1ID is the identifier of the first paper.
	Paper1ID string `json:"paper_1_id" yaml:"paper_1_id"`

	// Paper1Title is the display title of the first paper.
	Paper1Title string `json:"paper_1_title" yaml:"paper_1_title"`

	// Paper2ID is the identifier of the second paper.
	Paper2ID string `json:"paper_2_id" yaml:"paper_2_id"`

	// Paper2Title is the display title of the second paper.
	Paper2Title string `json:"paper_2_title" yaml:"paper_2_title"`

	// DOIMatch is true when both papers share a normalized DOI.
	DOIMatch bool `json:"doi_match,omitempty" yaml:"doi_match,omitempty"`
}

// DuplicateGroup is a connected component of report rows: papers linked
// to each other, directly or transitively, by at least one pair.
type DuplicateGroup struct {
	// PaperIDs lists the members in ascending order.
	PaperIDs []string `json:"paper_ids" yaml:"paper_ids"`

	// MaxScore is the highest pair score inside the group.
	MaxScore float64 `json:"max_score" yaml:"max_score"`
}
