package xmlevent

import (
	"errors"
	"io"
)

// Filter is a transformation of an event stream. Push absorbs a single event and returns the
// events that are ready to be passed on, which may be none. Flush is called once at the end of
// the stream and returns the events that are still held back.
type Filter interface {
	Push(ev Event) ([]Event, error)
	Flush() ([]Event, error)
}

// Chain combines filters into a single filter that applies them in order. Nil filters are
// skipped, an empty chain passes events through unchanged.
func Chain(filters ...Filter) Filter {
	var ret chain
	for _, f := range filters {
		switch f := f.(type) {
		case nil:
			// skip
		case chain:
			ret = append(ret, f...)
		default:
			ret = append(ret, f)
		}
	}
	return ret
}

type chain []Filter

func (c chain) Push(ev Event) ([]Event, error) {
	return c.pushFrom(0, []Event{ev})
}

func (c chain) Flush() ([]Event, error) {
	var out []Event
	for i, f := range c {
		flushed, err := f.Flush()
		if err != nil {
			return nil, err
		}
		flushed, err = c.pushFrom(i+1, flushed)
		if err != nil {
			return nil, err
		}
		out = append(out, flushed...)
	}
	return out, nil
}

// pushFrom pushes events through the filters starting at index i.
func (c chain) pushFrom(i int, events []Event) ([]Event, error) {
	for _, f := range c[i:] {
		var next []Event
		for _, ev := range events {
			out, err := f.Push(ev)
			if err != nil {
				return nil, err
			}
			next = append(next, out...)
		}
		events = next
		if len(events) == 0 {
			break
		}
	}
	return events, nil
}

// Filtered returns a source that yields the events of src transformed by f. If f is nil, src
// is returned unchanged.
func Filtered(src Source, f Filter) Source {
	if f == nil {
		return src
	}
	return &filteredSource{src: src, f: f}
}

type filteredSource struct {
	src     Source
	f       Filter
	ready   []Event
	drained bool
}

func (s *filteredSource) Next() (Event, error) {
	for len(s.ready) == 0 {
		if s.drained {
			return Event{}, io.EOF
		}
		ev, err := s.src.Next()
		switch {
		case errors.Is(err, io.EOF):
			s.drained = true
			s.ready, err = s.f.Flush()
			if err != nil {
				return Event{}, err
			}
		case err != nil:
			return Event{}, err
		default:
			s.ready, err = s.f.Push(ev)
			if err != nil {
				return Event{}, err
			}
		}
	}
	ev := s.ready[0]
	s.ready = s.ready[1:]
	return ev, nil
}

// Apply runs events through f and returns the result.
func Apply(f Filter, events []Event) ([]Event, error) {
	if f == nil {
		return events, nil
	}
	var out []Event
	for _, ev := range events {
		ready, err := f.Push(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, ready...)
	}
	rest, err := f.Flush()
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}
