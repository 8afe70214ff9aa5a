package format

import (
	"github.com/nkxxll/ruff/pkg/comments"
)

// suppressed is the two-state suppression automaton. It is scoped to one
// statement suite: traversals reset it to active when entering a nested
// suite, and it is never inherited across sibling suites.
type suppressed bool

const (
	active       suppressed = false
	suppressedOn suppressed = true
)

// update advances the automaton over one statement's comment list: an off
// sentinel suppresses, and while suppressed an on sentinel re-activates.
func (s suppressed) update(list []comments.Comment, source []byte) suppressed {
	if s == active {
		return suppressed(comments.StartsSuppression(list, source))
	}
	return suppressed(!comments.EndsSuppression(list, source))
}
