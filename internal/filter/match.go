package filter

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// ValueSeparator separates multiple values supplied for a single filter key.
const ValueSeparator = ","

// Predicate defines a function that returns true if the given item matches a condition.
type Predicate[T any] func(item T, filterValue string) bool

// Options holds configuration for filtering behavior.
type Options[T any] struct {
	matchers map[string]Predicate[T]
}

// Option configures filter Options.
type Option[T any] func(*Options[T]) error

// defaultOptions returns the default filter Options.
func defaultOptions[T any]() Options[T] {
	return Options[T]{
		matchers: make(map[string]Predicate[T]),
	}
}

// NormalizeString can be used to normalize a string value for filtering/comparison.
// The value is made lowercase and has any leading and/or trailing whitespace removed.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// JoinValues combines values into a single filter value, dropping blanks.
// It is the inverse of SplitValues.
func JoinValues(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ValueSeparator)
}

// SplitValues separates a filter value into its normalized, non-empty parts.
func SplitValues(val string) []string {
	parts := strings.Split(val, ValueSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = NormalizeString(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewOptions creates filter Options with defaults and applies given options.
func NewOptions[T any](opt ...Option[T]) (Options[T], error) {
	opts := defaultOptions[T]()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return Options[T]{}, err
		}
	}
	return opts, nil
}

// ValueProvider extracts a single string value from an item of type T.
type ValueProvider[T any] func(T) string

// OrContains returns a Predicate that checks if *ANY* of the values from the supplied providers
// contain the filter value as a substring (case-insensitive, normalized).
//
// Example:
//
// predicate := OrContains(NameProvider, DescriptionProvider),
// result := predicate(server, "postgres") // true if the name or the description contains "postgres"
func OrContains[T any](providers ...ValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		q := NormalizeString(val)
		for _, p := range providers {
			if strings.Contains(NormalizeString(p(item)), q) {
				return true
			}
		}
		return false
	}
}

// In returns a Predicate that checks if the value extracted by the provider equals *ANY*
// of the comma-separated values in the filter string (case-insensitive, normalized).
// A filter value with no non-empty parts places no restriction.
//
// Example:
//
// predicate := In(TechnologyProvider),
// result := predicate(server, "Go,Python") // true if the server's technology is Go or Python
func In[T any](provider ValueProvider[T]) Predicate[T] {
	return func(item T, val string) bool {
		allowed := SplitValues(val)
		if len(allowed) == 0 {
			return true
		}
		return slices.Contains(allowed, NormalizeString(provider(item)))
	}
}

// WithMatchers adds or overrides matchers.
func WithMatchers[T any](m map[string]Predicate[T]) Option[T] {
	return func(o *Options[T]) error {
		for k, v := range m {
			if v == nil {
				return fmt.Errorf("matcher for key '%s' cannot be nil", k)
			}
			o.matchers[NormalizeString(k)] = v
		}
		return nil
	}
}

// Match applies the provided filters to an item of type T using any configured Option matchers.
// It returns false if any matcher fails to validate the corresponding field.
// Keys with no configured matcher are ignored.
func Match[T any](item T, filters map[string]string, opts ...Option[T]) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	filterOpts, err := NewOptions(opts...)
	if err != nil {
		return false, err
	}

	return filterOpts.match(item, filters), nil
}

// All returns the items that satisfy every filter, preserving order.
// Options are resolved once for the whole slice.
func All[T any](items []T, filters map[string]string, opts ...Option[T]) ([]T, error) {
	filterOpts, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if len(filters) == 0 || filterOpts.match(item, filters) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (o Options[T]) match(item T, filters map[string]string) bool {
	for key, val := range filters {
		k := NormalizeString(key)
		if k == "" {
			continue
		}

		matcher, ok := o.matchers[k]
		if !ok {
			continue
		}
		if !matcher(item, val) {
			return false
		}
	}
	return true
}

// MatchRequestedSlice returns normalized values from `requested` that are found in `available`.
// It returns an error if any requested value is not found in the available set.
// When nothing is requested every available value is returned.
func MatchRequestedSlice(requested []string, available []string) ([]string, error) {
	availableSet := make(map[string]struct{}, len(available))
	for _, v := range available {
		availableSet[NormalizeString(v)] = struct{}{}
	}

	if len(requested) == 0 {
		out := slices.Collect(maps.Keys(availableSet))
		sort.Strings(out)
		return out, nil
	}

	requestedSet := make(map[string]struct{}, len(requested))
	missing := make([]string, 0)

	for _, v := range requested {
		n := NormalizeString(v)
		requestedSet[n] = struct{}{}
		if _, ok := availableSet[n]; !ok {
			missing = append(missing, v)
		}
	}

	switch len(missing) {
	case 0:
		out := slices.Collect(maps.Keys(requestedSet))
		sort.Strings(out)
		return out, nil
	case len(requestedSet):
		return nil, fmt.Errorf("none of the requested values were found")
	default:
		sort.Strings(missing)
		return nil, fmt.Errorf("missing values: %s", strings.Join(missing, ", "))
	}
}
