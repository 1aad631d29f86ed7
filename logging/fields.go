package logging

import "fmt"

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err records err under the "error" key.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field {
	return String("component", name)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func NodeType(name string) Field {
	return String("node_type", name)
}

func Tool(name string) Field {
	return String("tool", name)
}

func Path(p string) Field {
	return String("path", p)
}

func Count(n int) Field {
	return Int("count", n)
}

// Position records a scene coordinate as "x,y".
func Position(x, y float64) Field {
	return String("pos", fmt.Sprintf("%g,%g", x, y))
}
