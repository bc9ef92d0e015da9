// Package adoerror provides error inspection capabilities for Azure DevOps API errors.
// It centralizes the logic for identifying different types of errors returned by
// the Azure DevOps REST API, eliminating the need for string-based error checking
// throughout the codebase.
package adoerror
