package utils

import "strings"

// SliceContains - utility-function to check wether an element is part of an array
func SliceContains[V comparable](search V, data []V) bool {
	for _, value := range data {
		if value == search {
			return true
		}
	}
	return false
}

// RemoveIndex returns a new slice without the element at index. The input slice is left untouched.
func RemoveIndex[V any](s []V, index int) []V {
	out := make([]V, 0, len(s)-1)
	out = append(out, s[:index]...)
	return append(out, s[index+1:]...)
}

// SplitNonEmpty splits by separator and drops empty items.
func SplitNonEmpty(in string, separator string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(in, separator) {
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// JoinAsString joins string based enum values, e.g. for error messages and validation tags.
func JoinAsString[T ~string](values []T, separator string) string {
	items := make([]string, 0, len(values))
	for _, value := range values {
		items = append(items, string(value))
	}
	return strings.Join(items, separator)
}
