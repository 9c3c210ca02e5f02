package reference

import "context"

// Resolution is the outcome of looking up a reference row by its display
// name. The zero value is unresolved.
type Resolution struct {
	id    int64
	found bool
}

func Found(id int64) Resolution {
	return Resolution{id: id, found: true}
}

func Unresolved() Resolution {
	return Resolution{}
}

// ID reports the resolved id and whether the lookup matched a row.
func (r Resolution) ID() (int64, bool) {
	return r.id, r.found
}

func (r Resolution) IsFound() bool {
	return r.found
}

// Resolver maps user-entered names onto reference ids. Names are matched
// case-insensitively; currencies by ISO code.
type Resolver interface {
	ResolveCategory(ctx context.Context, name string) (Resolution, error)
	ResolvePaymentMethod(ctx context.Context, name string) (Resolution, error)
	ResolveCurrency(ctx context.Context, code string) (Resolution, error)
	ResolveCountry(ctx context.Context, name string) (Resolution, error)
}
