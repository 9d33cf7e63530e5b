// Package severity classifies OSV advisories and aggregates them per package.
//
// # Ordering
//
// Severities are totally ordered:
//
//	safe < low < medium < high < critical
//
// A package is [Safe] exactly when it has no advisories; otherwise its
// severity is the worst severity among its advisories.
//
// # Classification
//
// OSV entries carry severity in several places depending on the source
// database. [Classify] checks, in order:
//
//  1. database_specific.severity (GitHub advisories: "LOW", "MODERATE", ...)
//  2. affected[].ecosystem_specific.severity and affected[].database_specific.severity
//  3. numeric scores in severity[] (CVSS base score thresholds 9/7/4)
//
// An advisory with no usable severity counts as [Low]: it is a known
// vulnerability, so it must not be reported as safe.
package severity
