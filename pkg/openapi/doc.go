// Package openapi exports the registration schema and the HTTP surface that
// serves it as an OpenAPI 3 document. Documents are built with kin-openapi and
// validated before they are returned, so a malformed export fails loudly.
package openapi
