// Package diag carries structured compile-time diagnostics between pipeline
// stages and the driver.
//
// Phases report through the Reporter interface and never print; rendering is
// the CLI's job. A Bag accumulates diagnostics up to a cap, and the rule for
// downstream stages is absolute: if the bag has at least one error, the
// normalizer and the code generator do not run.
package diag
