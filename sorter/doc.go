// Package sorter reconstructs human reading order for detected layout
// elements on a scanned page. Given a flat set of class-labelled bounding
// boxes it classifies the page's column topology, recursively splits the
// page into atomic regions, groups elements under their owning anchors
// (question numbers, section headers), reassigns misplaced tables and
// figures between groups, and finally stamps every element with a global
// reading-order rank.
//
// The sorter is synchronous, CPU-bound and deterministic: the same element
// set and configuration always produce the same ordering. It never fails
// for well-typed input; degraded cases (no anchors, unknown classes)
// surface as warnings beside a complete result.
package sorter
