package integrations

import "github.com/joelsnl/noveldl/pkg/data"

// DocumentBuilder is the assembly sink at the end of the pipeline. It
// receives metadata once, then chapters with strictly ascending indices,
// then a single Finalize.
type DocumentBuilder interface {
	Init(novel *data.Novel) error
	AddChapter(index int, title, body string) error
	Finalize() (string, error)
}
