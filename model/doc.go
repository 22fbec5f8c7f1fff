// Package model defines the shared data types for pagesort: bounding-box
// geometry, detected layout elements and their class vocabulary, and page
// metadata. It sits at the bottom of the dependency graph and has no
// dependencies on other pagesort packages.
package model
