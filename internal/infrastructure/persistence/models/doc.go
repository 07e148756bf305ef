// Package models contains the GORM persistence models of the hostel database.
// Domain entities stay free of ORM tags; each model converts to and from its
// entity with ToDomain and a ...FromDomain constructor.
//
// Models are portable between PostgreSQL and SQLite so that repository tests can
// run against an in-memory database. The production schema is owned by the SQL
// migrations; AutoMigrate is only used for SQLite and tests.
package models
