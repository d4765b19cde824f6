package utils

import (
	"path/filepath"
	"runtime"
)

// ResolveFile joins fn onto the module root, e.g. ResolveFile("scene/testdata/two_links.json"). Tests
// use it to reach fixtures of other packages independent of the working directory.
func ResolveFile(fn string) string {
	//nolint:dogsled
	_, self, _, _ := runtime.Caller(0)
	root, err := filepath.Abs(filepath.Join(filepath.Dir(self), ".."))
	if err != nil {
		panic(err)
	}
	return filepath.Join(root, fn)
}
