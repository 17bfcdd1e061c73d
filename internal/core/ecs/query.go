package ecs

// The ForEach family walks the World's alive entities, captured when the call
// starts, and calls fn for those holding every requested component. If a
// requested type has no pool yet nothing is visited. Cost is
// O(alive entities x types), which is fine at scene scale.
//
// fn may Create entities (they are not visited) and Destroy them (deferred
// to Validate). It must not add or remove components of the iterated types.

func ForEach[A any](w *World, fn func(Entity, ComponentHandler[A])) {
	pa, ok := LookupPool[A](w)
	if !ok {
		return
	}
	for _, e := range w.entities.Entities() {
		if pa.Has(e) {
			fn(e, pa.Handler(e))
		}
	}
}

func ForEach2[A, B any](w *World, fn func(Entity, ComponentHandler[A], ComponentHandler[B])) {
	pa, okA := LookupPool[A](w)
	pb, okB := LookupPool[B](w)
	if !okA || !okB {
		return
	}
	for _, e := range w.entities.Entities() {
		if pa.Has(e) && pb.Has(e) {
			fn(e, pa.Handler(e), pb.Handler(e))
		}
	}
}

func ForEach3[A, B, C any](w *World, fn func(Entity, ComponentHandler[A], ComponentHandler[B], ComponentHandler[C])) {
	pa, okA := LookupPool[A](w)
	pb, okB := LookupPool[B](w)
	pc, okC := LookupPool[C](w)
	if !okA || !okB || !okC {
		return
	}
	for _, e := range w.entities.Entities() {
		if pa.Has(e) && pb.Has(e) && pc.Has(e) {
			fn(e, pa.Handler(e), pb.Handler(e), pc.Handler(e))
		}
	}
}

func ForEach4[A, B, C, D any](w *World, fn func(Entity, ComponentHandler[A], ComponentHandler[B], ComponentHandler[C], ComponentHandler[D])) {
	pa, okA := LookupPool[A](w)
	pb, okB := LookupPool[B](w)
	pc, okC := LookupPool[C](w)
	pd, okD := LookupPool[D](w)
	if !okA || !okB || !okC || !okD {
		return
	}
	for _, e := range w.entities.Entities() {
		if pa.Has(e) && pb.Has(e) && pc.Has(e) && pd.Has(e) {
			fn(e, pa.Handler(e), pb.Handler(e), pc.Handler(e), pd.Handler(e))
		}
	}
}

// ForEachOf is the runtime-token form: types are named by TypeID and fn only
// receives the entity.
func ForEachOf(w *World, types []TypeID, fn func(Entity)) {
	pools := make([]Pool, len(types))
	for i, id := range types {
		p := w.Pool(id)
		if p == nil {
			return
		}
		pools[i] = p
	}
	for _, e := range w.entities.Entities() {
		if hasAll(pools, e) {
			fn(e)
		}
	}
}

func hasAll(pools []Pool, e Entity) bool {
	for _, p := range pools {
		if !p.Has(e) {
			return false
		}
	}
	return true
}
