// Package drive is a minimal Google Drive v3 client for the theme folder
// layout: one shared root folder containing one subfolder per movie, each
// holding a theme audio file.
//
// Throttle responses (403/429) are reported as services.ErrRateLimited so the
// orchestrator can run its deferral protocol; all other HTTP failures are
// transient per-item errors.
package drive
