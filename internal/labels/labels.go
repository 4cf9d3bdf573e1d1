// Package labels assigns QC rows to the real and photocopy groups by
// matching marker substrings in each image path.
package labels

import (
	"strings"

	"go-qc-inspector/internal/table"
)

// Vocabulary is an ordered set of case-sensitive path markers. Common
// casings are listed explicitly instead of normalising paths.
type Vocabulary []string

// Matches reports whether path contains any marker.
func (v Vocabulary) Matches(path string) bool {
	for _, marker := range v {
		if marker != "" && strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// Select narrows view to rows whose path matches the vocabulary.
func (v Vocabulary) Select(view *table.View) *table.View {
	return view.Filter(func(r table.Row) bool {
		return v.Matches(r.FilePath)
	})
}

// Groups is the outcome of classifying every row against both vocabularies.
// Membership is not exclusive: Overlap holds rows matched by both, and
// Unlabelled holds rows matched by neither.
type Groups struct {
	Real       *table.View
	Photocopy  *table.View
	Overlap    *table.View
	Unlabelled *table.View
}

// Partition classifies view against the real and photocopy vocabularies.
func Partition(view *table.View, reals, photocopies Vocabulary) Groups {
	return Groups{
		Real:      reals.Select(view),
		Photocopy: photocopies.Select(view),
		Overlap: view.Filter(func(r table.Row) bool {
			return reals.Matches(r.FilePath) && photocopies.Matches(r.FilePath)
		}),
		Unlabelled: view.Filter(func(r table.Row) bool {
			return !reals.Matches(r.FilePath) && !photocopies.Matches(r.FilePath)
		}),
	}
}
