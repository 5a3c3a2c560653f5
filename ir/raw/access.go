package raw

// Typed accessors. They resolve references through the store and fail
// softly: a missing key or a type mismatch yields the zero value.

// AsDict resolves obj to a dictionary. Streams are not dictionaries here.
func (s *Store) AsDict(obj Object) *DictObj {
	d, _ := s.Resolve(obj).(*DictObj)
	return d
}

// AsArray resolves obj to an array.
func (s *Store) AsArray(obj Object) *ArrayObj {
	a, _ := s.Resolve(obj).(*ArrayObj)
	return a
}

// AsStream resolves obj to a stream.
func (s *Store) AsStream(obj Object) *StreamObj {
	st, _ := s.Resolve(obj).(*StreamObj)
	return st
}

// AsName resolves obj to a name.
func (s *Store) AsName(obj Object) (string, bool) {
	n, ok := s.Resolve(obj).(Name)
	if !ok {
		return "", false
	}
	return n.Value(), true
}

// AsNumber resolves obj to a number.
func (s *Store) AsNumber(obj Object) (float64, bool) {
	n, ok := s.Resolve(obj).(Number)
	if !ok {
		return 0, false
	}
	return n.Float(), true
}

// AsString resolves obj to a text string, decoding PDFDocEncoding or
// UTF-16BE as indicated by a byte order mark.
func (s *Store) AsString(obj Object) (string, bool) {
	str, ok := s.Resolve(obj).(String)
	if !ok {
		return "", false
	}
	return DecodeText(str.Value()), true
}

// AsBool resolves obj to a boolean.
func (s *Store) AsBool(obj Object) (bool, bool) {
	b, ok := s.Resolve(obj).(Boolean)
	if !ok {
		return false, false
	}
	return b.Value(), true
}

func get(d *DictObj, key string) Object {
	if d == nil {
		return nil
	}
	return d.KV[key]
}

// GetDict returns d[key] as a dictionary.
func (s *Store) GetDict(d *DictObj, key string) *DictObj { return s.AsDict(get(d, key)) }

// GetArray returns d[key] as an array.
func (s *Store) GetArray(d *DictObj, key string) *ArrayObj { return s.AsArray(get(d, key)) }

// GetStream returns d[key] as a stream.
func (s *Store) GetStream(d *DictObj, key string) *StreamObj { return s.AsStream(get(d, key)) }

// GetName returns d[key] as a name.
func (s *Store) GetName(d *DictObj, key string) (string, bool) { return s.AsName(get(d, key)) }

// GetNumber returns d[key] as a number.
func (s *Store) GetNumber(d *DictObj, key string) (float64, bool) {
	return s.AsNumber(get(d, key))
}

// GetInt returns d[key] truncated to an int.
func (s *Store) GetInt(d *DictObj, key string) (int, bool) {
	f, ok := s.AsNumber(get(d, key))
	return int(f), ok
}

// GetString returns d[key] as a decoded text string.
func (s *Store) GetString(d *DictObj, key string) (string, bool) {
	return s.AsString(get(d, key))
}

// GetBool returns d[key] as a boolean.
func (s *Store) GetBool(d *DictObj, key string) (bool, bool) { return s.AsBool(get(d, key)) }

// Numbers resolves every element of arr as a number. It fails when any
// element is not numeric.
func (s *Store) Numbers(arr *ArrayObj) ([]float64, bool) {
	if arr == nil {
		return nil, false
	}
	out := make([]float64, arr.Len())
	for i, it := range arr.Items {
		f, ok := s.AsNumber(it)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
