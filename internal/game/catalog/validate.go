package catalog

import (
	"fmt"
	"strings"

	"github.com/dmeverett/arbiter/internal/game/entity"
)

// Validate checks the cross-references of loaded content: every status name
// an effect injects must exist in the status channel. Per-file shape errors
// are already caught at load time.
//
// Postcondition: Returns nil, or an error describing all violations.
func (c *Catalog) Validate() error {
	var errs []string

	for _, name := range c.InteractionNames() {
		itx := c.interactions[name]
		for _, eff := range itx.UserEffects {
			errs = appendMissingStatus(errs, c, eff, fmt.Sprintf("interaction %q user effect", name))
		}
		for _, eff := range itx.TargetEffects {
			errs = appendMissingStatus(errs, c, eff, fmt.Sprintf("interaction %q target effect", name))
		}
		for _, eff := range itx.SelfEffects {
			errs = appendMissingStatus(errs, c, eff, fmt.Sprintf("interaction %q self effect", name))
		}
	}

	for _, name := range c.StatusNames() {
		st := c.statuses[name]
		for i, t := range st.Triggers {
			for _, eff := range t.SelfEffects {
				errs = appendMissingStatus(errs, c, eff, fmt.Sprintf("status %q trigger %d", name, i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func appendMissingStatus(errs []string, c *Catalog, eff entity.Effect, where string) []string {
	if eff.Kind != entity.EffectStatusInject {
		return errs
	}
	if _, ok := c.statuses[eff.Status]; !ok {
		return append(errs, fmt.Sprintf("%s injects unknown status %q", where, eff.Status))
	}
	return errs
}
