package settings

// Table returns the nested table stored under key, or an empty table.
func Table(s Store, key string) map[string]any {
	v, ok := s.Get(key)
	if !ok {
		return map[string]any{}
	}
	t, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return cloneMap(t)
}

// RunCounts returns how many times each generator package was run.
func RunCounts(s Store) map[string]int {
	out := make(map[string]int)
	for name, v := range Table(s, KeyGeneratorRunCount) {
		out[name] = toInt(v)
	}
	return out
}

// IncrementRunCount bumps the run counter of a generator package and returns
// the new value.
func IncrementRunCount(s Store, name string) (int, error) {
	counts := Table(s, KeyGeneratorRunCount)
	n := toInt(counts[name]) + 1
	counts[name] = int64(n)
	if err := s.Set(KeyGeneratorRunCount, counts); err != nil {
		return 0, err
	}
	return n, nil
}

// ClearGenerator drops everything stored about a single generator package.
func ClearGenerator(s Store, name string) error {
	for _, key := range []string{KeyGeneratorRunCount, KeyUpdateCheck} {
		t := Table(s, key)
		if _, ok := t[name]; !ok {
			continue
		}
		delete(t, name)
		if err := s.Set(key, t); err != nil {
			return err
		}
	}
	return nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
