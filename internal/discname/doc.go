// Package discname parses disc directory names into search hints.
//
// Rip directories inherit their names from disc volume labels, which range
// from clean ("The Office Season 3 Disc 1") to hostile ("BBCDVD3971").
// Everything extracted here is a hint: empty results are normal and the
// matching stages treat them as absent evidence, never as failure.
package discname
