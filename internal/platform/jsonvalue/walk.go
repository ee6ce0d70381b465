package jsonvalue

// Walk visits v and every node below it depth-first, parents before
// children, object members in document order and array elements in index
// order.
func Walk(v Value, visit func(Value)) {
	visit(v)
	switch v.kind {
	case KindArray:
		for _, item := range v.arr {
			Walk(item, visit)
		}
	case KindObject:
		for _, m := range v.obj.members {
			Walk(m.Value, visit)
		}
	}
}
