// Package model defines the category-partition object graph consumed by the
// frame generator: properties, boolean constraint expressions, choices, and
// categories.
//
// The graph is built once by a front end (the TSL text parser or the CUE
// compiler) and is immutable during generation with one exception: Property
// values are toggled by the generator while it explores a search path, and
// are always restored before Generate returns.
//
// Identity of properties and categories is by name. Names are NFC-normalized
// on interning so that visually identical Unicode spellings resolve to the
// same cell.
package model
