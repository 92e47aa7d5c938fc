// Package integration contains the ERP integration bounded context.
// It defines the port through which approved proposals become financial
// documents in the external ERP system.
//
// Key concepts:
//   - ERPClient: Port interface for creating sales documents in the ERP
//   - DocumentRequest: Header plus mapped lines sent to the ERP
//   - DocumentResult: Financial identifiers returned by the ERP
//   - ERPBusinessError: A well-formed ERP response that reports failure
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
