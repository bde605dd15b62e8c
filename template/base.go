package template

import (
	"errors"
	"fmt"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/hellodex/otcboard/util"
)

// Placeholder is replaced by the rendered rows in the page template.
const Placeholder = "<!--%TABLE_BODY%-->"

// offlineSince filter: {{ lastLogoutTime|offlineSince:now }}
var _ = func() interface{} {
	pongo2.RegisterFilter("offlineSince", func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		now := time.Unix(int64(param.Integer()), 0)
		return pongo2.AsValue(util.OfflineSince(now, int64(in.Integer()))), nil
	})
	return nil
}()

var ErrRender = errors.New("render row failed")

// FileError means the page template could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read template %s: %s", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
