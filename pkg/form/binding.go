package form

import (
	"github.com/goliatone/go-regform/pkg/registration"
)

// Binding connects one control to one FormData path.
type Binding struct {
	Path string
	Get  func(registration.FormData) string
	Set  func(*registration.FormData, string) error
}

// Bindings returns the binding table in form order.
func Bindings() []Binding {
	paths := registration.Paths()
	out := make([]Binding, 0, len(paths))
	for _, path := range paths {
		out = append(out, bindingFor(path))
	}
	return out
}

func bindingFor(path string) Binding {
	return Binding{
		Path: path,
		Get: func(data registration.FormData) string {
			value, _ := data.Get(path)
			return value
		},
		Set: func(data *registration.FormData, value string) error {
			return data.Set(path, value)
		},
	}
}
