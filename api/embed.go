// Package api embeds the OpenAPI document for the JSON endpoints.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
