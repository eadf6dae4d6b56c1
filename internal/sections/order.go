package sections

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// OrderProfile governs section order, alias canonicalization, suppression of
// sections without data and duplicate handling.
type OrderProfile struct {
	Order         []Key            `json:"order" yaml:"order"`
	Aliases       map[Key][]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	SuppressEmpty Suppression      `json:"suppress_empty" yaml:"suppress_empty"`
	DedupeTitles  bool             `json:"dedupe_titles" yaml:"dedupe_titles"`
}

// Vocabulary returns base extended with the profile's aliases.
func (p OrderProfile) Vocabulary(base *Vocabulary) *Vocabulary {
	return base.With(p.Aliases)
}

// Canonicalize resolves the order and suppression entries through base
// extended with the profile's aliases, so that "EXPERIENCE" stands for
// EMPLOYMENT HISTORY. A nil base is the default vocabulary.
func (p OrderProfile) Canonicalize(base *Vocabulary) OrderProfile {
	if base == nil {
		base = DefaultVocabulary()
	}
	v := p.Vocabulary(base)
	out := p
	if p.Order != nil {
		out.Order = make([]Key, len(p.Order))
		for i, k := range p.Order {
			out.Order[i] = v.Canonical(string(k))
		}
	}
	if p.SuppressEmpty.Keys != nil {
		out.SuppressEmpty.Keys = make([]Key, len(p.SuppressEmpty.Keys))
		for i, k := range p.SuppressEmpty.Keys {
			out.SuppressEmpty.Keys[i] = v.Canonical(string(k))
		}
	}
	return out
}

// Rank returns the position of k in the profile order, or -1. Order entries
// are compared after normalization only; see Canonicalize for aliases.
func (p OrderProfile) Rank(k Key) int {
	for i, o := range p.Order {
		if Key(Normalize(string(o))) == k {
			return i
		}
	}
	return -1
}

// Suppression is either a blanket switch or an explicit list of keys.
type Suppression struct {
	All  bool
	Keys []Key
}

// Suppresses reports whether an empty section k should be dropped.
func (s Suppression) Suppresses(k Key) bool {
	if s.All {
		return true
	}
	for _, sk := range s.Keys {
		if Key(Normalize(string(sk))) == k {
			return true
		}
	}
	return false
}

func (s *Suppression) UnmarshalJSON(data []byte) error {
	var all bool
	if err := json.Unmarshal(data, &all); err == nil {
		*s = Suppression{All: all}
		return nil
	}
	var keys []Key
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("suppress_empty: want bool or list of section names: %w", err)
	}
	*s = Suppression{Keys: keys}
	return nil
}

func (s Suppression) MarshalJSON() ([]byte, error) {
	if s.Keys == nil {
		return json.Marshal(s.All)
	}
	return json.Marshal(s.Keys)
}

func (s *Suppression) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var all bool
		if err := value.Decode(&all); err != nil {
			return fmt.Errorf("suppress_empty: %w", err)
		}
		*s = Suppression{All: all}
		return nil
	case yaml.SequenceNode:
		var keys []Key
		if err := value.Decode(&keys); err != nil {
			return fmt.Errorf("suppress_empty: %w", err)
		}
		*s = Suppression{Keys: keys}
		return nil
	default:
		return fmt.Errorf("suppress_empty: line %d: want bool or list of section names", value.Line)
	}
}

// Order resolves titles through the vocabulary and returns their render
// order. Keys listed in the profile come first in profile order; any other
// key follows in order of first appearance. With DedupeTitles set, later
// occurrences of a key are dropped.
func Order(titles []string, p OrderProfile, v *Vocabulary) []Key {
	if v == nil {
		v = DefaultVocabulary()
	}
	p = p.Canonicalize(v)
	v = p.Vocabulary(v)
	type entry struct {
		key  Key
		rank int
		pos  int
	}
	var entries []entry
	seen := map[Key]bool{}
	for i, t := range titles {
		k := v.Canonical(t)
		if k == "" {
			continue
		}
		if p.DedupeTitles && seen[k] {
			continue
		}
		seen[k] = true
		entries = append(entries, entry{key: k, rank: p.Rank(k), pos: i})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.rank >= 0 && b.rank >= 0:
			return a.rank < b.rank
		case a.rank >= 0:
			return true
		case b.rank >= 0:
			return false
		default:
			return a.pos < b.pos
		}
	})
	out := make([]Key, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}
