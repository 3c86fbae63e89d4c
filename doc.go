// Package incode finds injectable regions in source text.
//
// A region is delimited by two line comments:
//
//	// inj:emit("template", {"opt": true})
//	generated code lives here
//	// inj:end
//
// Regions may be nested in begin/end scopes, and every scope carries JSON data
// built up with assign (shallow) and merge (deep) directives:
//
//	// inj:assign({"schema": "User"})
//	// inj:begin
//	// inj:merge({"fields": {"id": "int"}})
//	// inj:emit("model")
//	// inj:end
//	// inj:end
//
// ExtractRegions reports every region with the data in effect at its emit
// directive; Inject replaces region contents with text produced by a caller
// supplied RenderFunc.
package incode
