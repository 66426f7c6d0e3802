// Package docs embeds the OpenAPI description of the invoice API.
package docs

import _ "embed"

// OpenAPI is the OpenAPI 3 document served next to the Swagger UI
//
//go:embed openapi.json
var OpenAPI []byte
