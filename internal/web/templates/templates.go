// Package templates embeds the single-page UI.
package templates

import "embed"

//go:embed index.html
var FS embed.FS
