// Package tables registers the pimpoyo dump schemas with the core registry.
// Import this package to ensure all tables are registered.
package tables

// Each file registers one group of tables from init(). Column order is the
// positional contract of the matching COPY block and must not be reordered.
