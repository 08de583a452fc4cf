// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The classifier and the filter pipeline are pure functions of their
// input; the record, activity and billing services add caching and
// write-back on top of a driven.SheetSource.
package services
