// Package preflight provides readiness checks for the external tools and
// filesystem paths happy-audio depends on.
//
// The doctor command renders every result. Processing runs call RunAll first
// so an unwritable cache or output directory fails before a download starts.
package preflight
