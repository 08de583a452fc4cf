// Package domain defines the core business entities for leadsheet.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: One spreadsheet row, keyed by header
//   - Table: The rows of a sheet range plus their column order
//   - FilterState: Search term, category and page selected by a user
//   - Page: One slice of filtered records with pagination metadata
//   - SheetRef: A configured sheet and the column holding its display name
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
