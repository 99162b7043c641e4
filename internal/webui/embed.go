package webui

import "embed"

//go:embed templates
var assets embed.FS
