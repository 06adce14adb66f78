// Package registration declares the registration form data, the schema that
// validates it and the error map that binds failures to field paths.
//
// A Schema is immutable once built and safe for concurrent use:
//
//	schema := registration.New(registration.WithPasswordReporting(registration.ReportAll))
//	result := schema.Validate(data)
//	if !result.Valid() {
//		for _, path := range result.Errors.Paths() {
//			fmt.Println(path, result.Errors.First(path))
//		}
//	}
package registration
