// Package models contains GORM-specific persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// domain entity with ToDomain and FromDomain.
//
// Columns use portable types (varchar, text, numeric, timestamp) so the same
// models serve both the embedded sqlite store and PostgreSQL.
package models
