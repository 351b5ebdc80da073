// Package analytics computes topic trends, platform insights, sentiment and
// similarity over archived news items, and renders summary reports.
//
// Everything here is pure computation over items the caller already fetched:
// the package never touches storage, which keeps each analysis directly
// testable with literal item sets.
package analytics
