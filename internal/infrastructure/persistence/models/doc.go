// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain stays free of ORM
// tags; each model converts with ToDomain and FromDomain.
//
// Files:
//   - base.go: shared id, timestamp and version columns
//   - pricing.go: markup rules, products, pricing history and rule targets
//   - crm.go: customers, leads, projects and source documents
//   - proposal.go: proposals with their equipment snapshot and ERP fields
package models
