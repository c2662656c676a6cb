// Package authz decides which mutations an identity may attempt on movies and
// reviews. Every function is pure so it can be evaluated on each render
// without caching. The decisions are a UX convenience; the server re-checks
// everything.
package authz

import (
	"strings"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// Action is a mutation an identity may attempt.
type Action uint8

const (
	ActionCreate Action = 1 << iota
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Actions is a set of allowed actions. The zero value is the empty set.
type Actions uint8

// None is the read-only action set.
const None Actions = 0

// Has reports whether a is in the set.
func (s Actions) Has(a Action) bool {
	return s&Actions(a) != 0
}

// Empty reports whether the set grants nothing.
func (s Actions) Empty() bool {
	return s == None
}

func (s Actions) String() string {
	var names []string
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		if s.Has(a) {
			names = append(names, a.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

func set(actions ...Action) Actions {
	var s Actions
	for _, a := range actions {
		s |= Actions(a)
	}
	return s
}

// Kind is the type of resource being gated.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindReview Kind = "review"
)

// MovieActions returns what identity may do to movies. Only admins mutate
// movies.
func MovieActions(identity *domain.Identity) Actions {
	if identity.IsAdmin() {
		return set(ActionCreate, ActionUpdate, ActionDelete)
	}
	return None
}

// ReviewActions returns what identity may do to an existing review authored
// by owner.
func ReviewActions(identity *domain.Identity, owner string) Actions {
	switch {
	case identity == nil:
		return None
	case identity.IsAdmin():
		return set(ActionUpdate, ActionDelete)
	case owner != "" && owner == identity.Username:
		return set(ActionUpdate, ActionDelete)
	}
	return None
}

// Allowed is the generic form: the actions identity holds on a resource of
// kind owned by owner. Movies have no owner.
func Allowed(identity *domain.Identity, kind Kind, owner string) Actions {
	switch kind {
	case KindMovie:
		return MovieActions(identity)
	case KindReview:
		return ReviewActions(identity, owner)
	}
	return None
}

// CanCreateReview reports whether identity may add a review to movie: it must
// be authenticated and must not already have authored one there.
func CanCreateReview(identity *domain.Identity, movie domain.Movie) bool {
	if identity == nil {
		return false
	}
	return movie.ReviewBy(identity.Username) < 0
}
