// Package assets embeds the default word list used when no dictionary file
// is configured.
package assets

import "embed"

// DefaultWords is the name of the embedded list inside FS.
const DefaultWords = "words.txt"

//go:embed words.txt
var FS embed.FS
