// Package coupon validates discount coupons against their business rules
// and computes discount amounts. It also ships the bulk importer used to
// provision campaign codes from gzipped code lists.
package coupon

import "context"

// CodeSet is a deduplicated set of coupon codes read from a code list.
type CodeSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int

	// Codes returns every code in the set.
	Codes() []string
}

// Loader reads a gzipped code-list file (one code per line) into a CodeSet.
type Loader interface {
	Load(ctx context.Context, path string) (CodeSet, error)
}
