// Package reconcile holds the pure merge functions that fold server responses
// and push events into cached feed state.
//
// Every function here returns new slices and maps and never writes to its
// arguments: observers compare old and new values structurally, so a state
// value that has been published must never change underneath them.
package reconcile

// Position selects how incoming entities are combined with existing ones.
type Position int

const (
	// Prepend places incoming entities first, followed by existing entities
	// whose key is not in incoming.
	Prepend Position = iota
	// Append keeps existing entities first, followed by incoming entities
	// whose key is not in existing.
	Append
	// Replace keeps the existing order, substitutes matching incoming entities
	// in place, and appends unmatched incoming entities at the end.
	Replace
)

func (p Position) String() string {
	switch p {
	case Prepend:
		return "start"
	case Append:
		return "end"
	case Replace:
		return "replace"
	}
	return "unknown"
}

// Merge combines incoming with existing into one ordered list holding each key
// once. changed is false, and existing is returned as is, when incoming is empty.
func Merge[T any, K comparable](incoming, existing []T, key func(T) K, pos Position) (result []T, changed bool) {
	if len(incoming) == 0 {
		return existing, false
	}
	switch pos {
	case Append:
		return uniqueConcat(existing, incoming, key), true
	case Replace:
		return replaceInPlace(incoming, existing, key), true
	default:
		return uniqueConcat(incoming, existing, key), true
	}
}

// uniqueConcat returns first followed by the entries of rest whose key has not
// been seen. Duplicates inside either list keep their first occurrence.
func uniqueConcat[T any, K comparable](first, rest []T, key func(T) K) []T {
	out := make([]T, 0, len(first)+len(rest))
	seen := make(map[K]struct{}, len(first)+len(rest))
	for _, list := range [][]T{first, rest} {
		for _, item := range list {
			k := key(item)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func replaceInPlace[T any, K comparable](incoming, existing []T, key func(T) K) []T {
	byKey := make(map[K]T, len(incoming))
	for _, item := range incoming {
		k := key(item)
		if _, ok := byKey[k]; !ok {
			byKey[k] = item
		}
	}

	out := make([]T, 0, len(existing)+len(incoming))
	seen := make(map[K]struct{}, len(existing)+len(incoming))
	for _, item := range existing {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if replacement, ok := byKey[k]; ok {
			out = append(out, replacement)
			continue
		}
		out = append(out, item)
	}
	for _, item := range incoming {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// indexOf returns the index of the first entry with key k, or -1.
func indexOf[T any, K comparable](list []T, key func(T) K, k K) int {
	for i, item := range list {
		if key(item) == k {
			return i
		}
	}
	return -1
}

// replaceAt returns a copy of list with list[i] set to v.
func replaceAt[T any](list []T, i int, v T) []T {
	out := make([]T, len(list))
	copy(out, list)
	out[i] = v
	return out
}

// removeAt returns a copy of list without list[i].
func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
