// Package sorting holds the algorithms measured by sortbench.
//
// Both sorts are pure: they return a new slice and leave the argument
// untouched, so the same input can be handed to several algorithms.
package sorting
