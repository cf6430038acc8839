package models

import (
	"encoding/json"
	"math"
)

// Document field names with a fixed meaning
const (
	CourseIDField    = "id"
	InternalIDField  = "_id"
	CourseCollection = "courses"
)

// Course is an open attribute bag keyed by a system-assigned integer id.
// Every field other than id is passed through verbatim.
type Course map[string]interface{}

// ID returns the course id and whether it holds a usable integer.
func (c Course) ID() (int64, bool) {
	return toInt64(c[CourseIDField])
}

// WithID returns a shallow copy of the course carrying the given id.
func (c Course) WithID(id int64) Course {
	out := make(Course, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[CourseIDField] = id
	return out
}

// Fields returns a shallow copy without the id and the store's internal
// identifier, i.e. the part of a payload a client may set.
func (c Course) Fields() Course {
	out := make(Course, len(c))
	for k, v := range c {
		if k == CourseIDField || k == InternalIDField {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone deep copies the course by round-tripping through JSON. The id is
// restored as an int64 afterwards since JSON numbers decode as float64.
func (c Course) Clone() Course {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	var out Course
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	if id, ok := c.ID(); ok {
		out[CourseIDField] = id
	}
	return out
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
