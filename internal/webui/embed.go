// ABOUTME: Embeds the HTML page template into the binary using go:embed
// ABOUTME: Provides templateFS for parsing the page shell once per handler

package webui

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
