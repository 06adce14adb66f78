package birthdate

import (
	"net/http"
	"time"
)

// Component wraps the option handler, its configuration, and routing helpers.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Lists computes the three sequences using the component clock.
func (c *Component) Lists() Set {
	opts := c.Options()
	now := opts.Clock()
	return Set{
		Day:   Days(),
		Month: Months(),
		Year:  YearsFrom(now.Year(), opts.MinYear),
	}
}

// Now reports the component clock reading.
func (c *Component) Now() time.Time {
	return c.Options().Clock()
}

// Handler returns a net/http handler for option queries.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
