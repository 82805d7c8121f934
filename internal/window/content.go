package window

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

// ReportedContent is content whose preferred size is pushed by the hosted
// application rather than measured. The zero value reports no preference.
type ReportedContent struct {
	size platform.Size
}

// Report records the application's preferred size.
func (c *ReportedContent) Report(size platform.Size) error {
	if !size.Valid() {
		return fmt.Errorf("%w: content size %s", resize.ErrInvalidSize, size)
	}
	c.size = size
	return nil
}

// PreferredSize implements Content.
func (c *ReportedContent) PreferredSize() platform.Size {
	return c.size
}
