package birthdate

import (
	"net/http"
	"time"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath string
	MinYear   int
	Clock     func() time.Time
	Guard     GuardFunc
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath: "/api/birthdate",
		MinYear:   MinYear,
		Clock:     time.Now,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/birthdate"
	}
	if opts.MinYear <= 0 {
		opts.MinYear = MinYear
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithMinYear(year int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinYear = year
	}
}

// WithClock pins the instant used to derive the year list.
func WithClock(clock func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Clock = clock
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}
