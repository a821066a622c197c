//go:build ruleguard

package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// EnhancedErrorBuild catches builder chains that never call Build. Without it
// the error is a *ErrorBuilder and is never categorized or reported.
func EnhancedErrorBuild(m dsl.Matcher) {
	m.Match(`return errors.New($err).Component($c).Category($cat)`,
		`return errors.Newf($*_).Component($c).Category($cat)`).
		Where(m.File().PkgPath.Matches(`trapstats/internal`)).
		Report("error builder chain is missing .Build()")
}

// EnhancedErrorNewf prefers Newf over wrapping fmt.Errorf by hand
func EnhancedErrorNewf(m dsl.Matcher) {
	m.Match(`errors.New(fmt.Errorf($*args))`).
		Where(m.File().PkgPath.Matches(`trapstats/internal`)).
		Report("use errors.Newf($args) instead of errors.New(fmt.Errorf(...))").
		Suggest("errors.Newf($args)")
}

// LogNaturalBase flags manual base conversions in the diversity code, where
// every index uses the natural log.
func LogNaturalBase(m dsl.Matcher) {
	m.Match(`math.Log($x) / math.Log(2)`).
		Report("use math.Log2($x)").
		Suggest("math.Log2($x)")

	m.Match(`math.Log($x) / math.Log(10)`).
		Report("use math.Log10($x)").
		Suggest("math.Log10($x)")
}
