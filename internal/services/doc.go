// Package services defines the shared error taxonomy, context annotations, and
// progress plumbing used by every stage of the accelerator.
//
// Key responsibilities:
//   - Sentinel markers for each failure kind plus the Wrap helper that attaches
//     stage and operation context while keeping the marker matchable with
//     errors.Is.
//   - Context helpers that stamp run identifiers and stage names so log lines
//     from one invocation can be correlated.
//   - ProgressFunc, the optional observational sink fed by the fetch, audio,
//     and export steps.
//
// Stage code should always return errors built with Wrap so the CLI can report
// precisely which transformation failed.
package services
