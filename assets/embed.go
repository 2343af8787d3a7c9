// Package assets embeds the defaults the server falls back to when the data
// directory does not provide its own: game configuration, wordlists and SQL
// migrations.
package assets

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed config.yaml wordlists/*.txt sql/*.sql
var FS embed.FS

// DefaultConfig returns the embedded game configuration YAML.
func DefaultConfig() ([]byte, error) {
	return FS.ReadFile("config.yaml")
}

// Wordlist opens an embedded wordlist by file name.
func Wordlist(name string) (fs.File, error) {
	return FS.Open(path.Join("wordlists", name))
}

// Migrations exposes the embedded sql/*.sql files at the root of the returned FS.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
