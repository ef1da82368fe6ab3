// Package textutil provides title normalization and similarity scoring for
// matching library movies against remote theme folders.
//
// Normalization canonicalizes a title for comparison: case and diacritics are
// folded, edition suffixes such as "(Director's Cut)" are stripped, trailing
// articles are rotated back to the front ("Matrix, The" becomes "the matrix"),
// and punctuation is reduced to intra-word hyphens. Similarity is a token-sort
// Levenshtein ratio over normalized titles, so word order does not matter.
package textutil
