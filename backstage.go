// Package backstage collects searchable documents from the entities of a
// Backstage software catalog. It queries each entity's published TechDocs
// search index and normalizes the results into a uniform document format
// for a downstream indexing consumer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, slog/), and the collation
// pipeline lives in collate/.
package backstage
