package scene

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scenes/*.yaml
var ScenesFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadScene returns the named scene, preferring a file on disk over the
// embedded copy.
func LoadScene(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(embeddedPath("scenes", name))
}

// LoadScript returns the named tengo script, preferring scripts/<name> on
// disk over the embedded copy.
func LoadScript(name string) ([]byte, error) {
	clean := embeddedPath("scripts", name)
	if data, err := os.ReadFile(filepath.FromSlash(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func embeddedPath(dir, name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "scene/")
	s = strings.TrimPrefix(s, dir+"/")
	return dir + "/" + s
}
