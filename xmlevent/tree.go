package xmlevent

import "strconv"

// Tree describes the tree structure of an event sequence.
type Tree struct {
	// Paths holds, for every event that starts a node, the child index path of that node,
	// e.g. "/0/2". Top-level nodes are numbered from 0, so the root element usually is "/0".
	// It is empty for end tags.
	Paths []string

	// Partner holds the index of the matching end tag for start tags and of the matching
	// start tag for end tags. It is -1 for all other events and for unmatched tags.
	Partner []int
}

// Analyze computes the tree structure of events.
func Analyze(events []Event) Tree {
	t := Tree{
		Paths:   make([]string, len(events)),
		Partner: make([]int, len(events)),
	}

	type frame struct {
		path  string
		start int
		next  int
	}
	stack := []frame{{start: -1}}
	for i, ev := range events {
		t.Partner[i] = -1
		top := &stack[len(stack)-1]
		switch ev.Kind {
		case StartTag:
			path := top.path + "/" + strconv.Itoa(top.next)
			top.next++
			t.Paths[i] = path
			stack = append(stack, frame{path: path, start: i})
		case EndTag:
			if len(stack) == 1 {
				continue
			}
			t.Partner[i] = top.start
			t.Partner[top.start] = i
			stack = stack[:len(stack)-1]
		default:
			t.Paths[i] = top.path + "/" + strconv.Itoa(top.next)
			top.next++
		}
	}
	return t
}
