package gdev_test

import (
	"bytes"
	"go/format"
	"os"
	"testing"
)

// TestSourcesFormatted checks the files with aligned one-line accessor
// blocks against gofmt.
func TestSourcesFormatted(t *testing.T) {
	for _, path := range []string{"statecache.go", "texture.go", "rendertarget.go"} {
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := format.Source(src)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if !bytes.Equal(got, src) {
			t.Errorf("%s is not gofmt-formatted", path)
		}
	}
}
