package iostream

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type lazyFile struct {
	name string
	f    io.WriteCloser
}

// NewLazyFile creates filename and its parent directories on the first Write.
func NewLazyFile(filename string) io.WriteCloser {
	return &lazyFile{name: filename}
}

func (f *lazyFile) Write(bs []byte) (int, error) {
	if f.f == nil {
		if err := f.create(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log file %s: %v\n", f.name, err)
			return 0, err
		}
	}
	return f.f.Write(bs)
}

func (f *lazyFile) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *lazyFile) create() error {
	err := os.MkdirAll(filepath.Dir(f.name), os.ModePerm)
	if err != nil {
		return err
	}
	f.f, err = os.Create(f.name)
	return err
}

func NewFileRedirector(name string) *StdWriters {
	return &StdWriters{
		Stdout: NewLazyFile(name + ".stdout.log"),
		Stderr: NewLazyFile(name + ".stderr.log"),
	}
}

// Close closes every writer of ws that is an io.Closer.
func (ws *StdWriters) Close() error {
	var first error
	for _, w := range []io.Writer{ws.Stdout, ws.Stderr} {
		if c, ok := w.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
