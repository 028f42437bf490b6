package pagination

import (
	"errors"
	"fmt"
)

var ErrUnknownCursor = errors.New("pagination: unknown cursor")

// Window cuts the page described by vars out of an ordered in-memory
// collection. cursorOf must return a stable, unique cursor per item.
func Window[T any](items []T, cursorOf func(T) string, vars Variables) (Page[T], error) {
	start, end := 0, len(items)

	if vars.After != nil {
		i, err := indexOf(items, cursorOf, *vars.After)
		if err != nil {
			return Page[T]{}, err
		}
		start = i + 1
	}
	if vars.Before != nil {
		i, err := indexOf(items, cursorOf, *vars.Before)
		if err != nil {
			return Page[T]{}, err
		}
		end = i
	}
	if start > end {
		start = end
	}

	if vars.First != nil && end-start > *vars.First {
		end = start + *vars.First
	}
	if vars.Last != nil && end-start > *vars.Last {
		start = end - *vars.Last
	}

	nodes := make([]T, end-start)
	copy(nodes, items[start:end])

	// an empty page has no cursors to anchor navigation on
	var info PageInfo
	if len(nodes) > 0 {
		first, last := cursorOf(nodes[0]), cursorOf(nodes[len(nodes)-1])
		info = PageInfo{
			HasPreviousPage: start > 0,
			HasNextPage:     end < len(items),
			StartCursor:     &first,
			EndCursor:       &last,
		}
	}

	return Page[T]{Nodes: nodes, PageInfo: info}, nil
}

func indexOf[T any](items []T, cursorOf func(T) string, cursor string) (int, error) {
	for i, item := range items {
		if cursorOf(item) == cursor {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCursor, cursor)
}
