package lesson

import (
	"encoding/json"
	"fmt"
)

// Sections is an ordered kind → section map. Insertion order is kept, and
// setting an existing kind replaces it in place.
type Sections struct {
	order []Kind
	items map[Kind]Section
}

// Set stores s under its kind.
func (ss *Sections) Set(s Section) {
	if ss.items == nil {
		ss.items = make(map[Kind]Section)
	}
	k := s.Kind()
	if _, ok := ss.items[k]; !ok {
		ss.order = append(ss.order, k)
	}
	ss.items[k] = s
}

// Get returns the section of kind k.
func (ss Sections) Get(k Kind) (Section, bool) {
	s, ok := ss.items[k]
	return s, ok
}

// Kinds returns the stored kinds in order.
func (ss Sections) Kinds() []Kind {
	out := make([]Kind, len(ss.order))
	copy(out, ss.order)
	return out
}

// All returns the stored sections in order.
func (ss Sections) All() []Section {
	out := make([]Section, 0, len(ss.order))
	for _, k := range ss.order {
		out = append(out, ss.items[k])
	}
	return out
}

func (ss Sections) Len() int { return len(ss.order) }

// Vocabulary returns the vocabulary section, if present.
func (ss Sections) Vocabulary() (Vocabulary, bool) {
	s, ok := ss.items[KindVocabulary]
	if !ok {
		return Vocabulary{}, false
	}
	v, ok := s.(Vocabulary)
	return v, ok
}

// Reading returns the reading section, if present.
func (ss Sections) Reading() (Reading, bool) {
	s, ok := ss.items[KindReading]
	if !ok {
		return Reading{}, false
	}
	r, ok := s.(Reading)
	return r, ok
}

// MarshalJSON encodes the sections as an ordered array of
// {"kind": k, "<k>": payload} objects.
func (ss Sections) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(ss.order))
	for _, k := range ss.order {
		out = append(out, map[string]any{
			"kind":    k,
			string(k): ss.items[k],
		})
	}
	return json.Marshal(out)
}

func (ss *Sections) UnmarshalJSON(data []byte) error {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*ss = Sections{}
	for i, env := range raw {
		var k Kind
		if err := json.Unmarshal(env["kind"], &k); err != nil {
			return fmt.Errorf("section %d: kind: %w", i, err)
		}
		payload, ok := env[string(k)]
		if !ok {
			return fmt.Errorf("section %d: missing %q payload", i, k)
		}
		s, err := decodeSection(k, payload)
		if err != nil {
			return fmt.Errorf("section %d (%s): %w", i, k, err)
		}
		ss.Set(s)
	}
	return nil
}

func decodeSection(k Kind, payload json.RawMessage) (Section, error) {
	switch k {
	case KindWarmUp:
		return decodeAs[WarmUp](payload)
	case KindVocabulary:
		return decodeAs[Vocabulary](payload)
	case KindReading:
		return decodeAs[Reading](payload)
	case KindComprehension:
		return decodeAs[Comprehension](payload)
	case KindDiscussion:
		return decodeAs[Discussion](payload)
	case KindDialoguePractice, KindDialogueFillGap:
		d, err := decodeAs[Dialogue](payload)
		if err != nil {
			return nil, err
		}
		if d.Kind() != k {
			return nil, fmt.Errorf("variant %q does not match kind", d.Variant)
		}
		return d, nil
	case KindGrammar:
		return decodeAs[Grammar](payload)
	case KindPronunciation:
		return decodeAs[Pronunciation](payload)
	case KindWrapUp:
		return decodeAs[WrapUp](payload)
	case KindTitle:
		return decodeAs[Title](payload)
	default:
		return nil, fmt.Errorf("unknown section kind %q", k)
	}
}

func decodeAs[T Section](payload json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(payload, &v)
	return v, err
}
