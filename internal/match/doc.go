// Package match pairs local library movies with remote theme folders. An
// exact pass on normalized title+year keys runs first; survivors go through a
// fuzzy token-sort pass gated by year agreement and a similarity threshold.
// Each remote folder is claimed by at most one movie per run.
package match
