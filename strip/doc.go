// Package strip removes named fields from every record of a knowledge
// document.
//
// Stripping is strictly sequential and idempotent: records are visited in
// order, a configured field is removed where present and silently skipped
// where absent, and no other keys are touched. Progress is reported
// periodically while large documents are processed.
package strip
