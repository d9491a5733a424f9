// Package libdiff computes line diffs between encoded views.
package libdiff
