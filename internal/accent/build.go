package accent

import (
	"context"
	"fmt"

	"github.com/roach88/sound/internal/inventory"
)

// buildInventory walks the registry's symbol space once, in enumeration
// order, and groups symbols by their reduced bundle. The first unrealizable
// symbol the accent does not tolerate aborts the build.
func buildInventory(ctx context.Context, a *Accent, ids inventory.BuildIDGenerator, checkEvery int) (*inventory.Inventory, error) {
	reg := a.Registry()
	b := inventory.NewBuilder(a.Name(), reg.Fingerprint())

	for i, e := range reg.Space() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("build %s: %w", a.Name(), err)
			}
		}

		ok, err := a.Realizable(e.Bundle)
		if err != nil {
			return nil, &BuildFailedError{Accent: a.Name(), Symbol: e.Symbol, Cause: err}
		}
		if !ok {
			tolerated, err := a.Tolerates(e.Bundle)
			if err != nil {
				return nil, &BuildFailedError{Accent: a.Name(), Symbol: e.Symbol, Cause: err}
			}
			if !tolerated {
				return nil, &BuildFailedError{
					Accent: a.Name(),
					Symbol: e.Symbol,
					Cause:  &UnrealizableError{Accent: a.Name(), Bundle: e.Bundle.String()},
				}
			}
			b.Skip(e.Symbol)
			continue
		}

		reduced, err := a.Reduce(e.Bundle)
		if err != nil {
			return nil, &BuildFailedError{Accent: a.Name(), Symbol: e.Symbol, Cause: err}
		}
		ipa, err := reg.Render(e.Symbol)
		if err != nil {
			return nil, &BuildFailedError{Accent: a.Name(), Symbol: e.Symbol, Cause: err}
		}
		if _, err := b.Add(e.Symbol, ipa, reduced); err != nil {
			return nil, &BuildFailedError{Accent: a.Name(), Symbol: e.Symbol, Cause: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build %s: %w", a.Name(), err)
	}
	return b.Build(ids)
}
