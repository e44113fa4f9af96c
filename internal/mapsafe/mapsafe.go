package mapsafe

// Get reads a typed value from a free-form options map such as a decoded YAML block.
// Numbers are converted between int and float64 since decoders disagree on which one
// they produce. A missing key or an unconvertible value yields defaultValue.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	raw, ok := m[key]
	if !ok || raw == nil {
		return defaultValue
	}

	var out any
	switch any(defaultValue).(type) {
	case int:
		switch x := raw.(type) {
		case int:
			out = x
		case int64:
			out = int(x)
		case float64:
			out = int(x)
		}
	case float64:
		switch x := raw.(type) {
		case float64:
			out = x
		case int:
			out = float64(x)
		case int64:
			out = float64(x)
		}
	default:
		out = raw
	}

	if v, ok := out.(T); ok {
		return v
	}
	return defaultValue
}
