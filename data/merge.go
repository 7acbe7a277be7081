package data

// Merge overlays child on parent and returns a new mapping; neither input
// is modified.
//
// Keys keep the parent's order, followed by keys only the child has, in the
// child's order. Where both sides hold a mapping the two are merged
// recursively. Otherwise the child's value replaces the parent's, so
// sequences are replaced wholesale rather than merged element by element.
// A null child value leaves the parent's value in place.
func Merge(parent, child *Mapping) *Mapping {
	out := NewMapping()
	parent.Each(func(k string, pv Value) bool {
		if cv, ok := child.Get(k); ok {
			out.set(k, mergeValue(pv, cv))
		} else {
			out.set(k, pv)
		}
		return true
	})
	child.Each(func(k string, cv Value) bool {
		if !parent.Has(k) {
			out.set(k, cv)
		}
		return true
	})
	return out
}

func mergeValue(parent, child Value) Value {
	if child.IsNull() {
		return parent
	}
	if parent.kind == KindMap && child.kind == KindMap {
		return Map(Merge(parent.m, child.m))
	}
	return child
}
