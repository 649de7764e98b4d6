package xmlevent

import (
	"errors"
	"io"
)

// Collect reads all events from src into a slice.
//
// Events before the root element are appended to preamble instead of the returned slice, or
// dropped if preamble is nil. Whitespace-only text outside of the root element is dropped.
func Collect(src Source, preamble *[]Event) ([]Event, error) {
	var events []Event
	depth := 0
	seenRoot := false
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}

		if depth == 0 && ev.IsWhitespace() {
			continue
		}
		switch ev.Kind {
		case StartTag:
			seenRoot = true
			depth++
		case EndTag:
			depth--
		}

		if !seenRoot {
			if preamble != nil {
				*preamble = append(*preamble, ev)
			}
			continue
		}
		events = append(events, ev)
	}
}

// SliceSource returns a source that yields events.
func SliceSource(events []Event) Source {
	return &sliceSource{events: events}
}

type sliceSource struct {
	events []Event
}

func (s *sliceSource) Next() (Event, error) {
	if len(s.events) == 0 {
		return Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}
