// Package parser reads the category-partition text format into the validated
// object graph the generator consumes.
//
// The format is line oriented:
//
//	# comment
//	Size:
//	    Empty.            [property emptyfile]
//	    NotEmpty.
//
//	Count:
//	    None.             [if !emptyfile] [property noOcc]
//	    Many.             [if !emptyfile]
//	    TooMany.          [error]
//
// A line ending in ':' opens a category; every following line up to the next
// header is a choice. A choice is a name terminated by '.', followed by
// bracketed annotations: [property a, b], [single], [error], [if <expr>],
// [else]. Annotations before [if] bind to the choice's base slots, between
// [if] and [else] to the if branch, after [else] to the else branch.
//
// Constraint expressions use property names, '!', '&&', '||' and parentheses,
// with '||' lowest precedence, '&&' tighter, and '!' binding to the following
// atom or parenthesized group.
//
// Property references are resolved in a second pass, so a constraint may name
// a property defined later in the file. Undefined properties, unmatched
// brackets or parentheses, and misplaced annotations are reported as
// ParseErrors with file and line position. Empty categories (including
// section headers such as "Parameters:") are dropped with a warning and never
// reach the generator.
package parser
