package raceresult

import "github.com/riskibarqy/nation-points/internal/platform/jsonvalue"

var (
	rankKeys   = []string{"rank", "position", "place"}
	nationKeys = []string{"nation", "nationShort", "countryCode", "country"}
)

// FindResultItems walks node depth-first and returns every object that
// looks like a race result: at least one rank key and at least one nation
// key, matched exactly. Matching objects are still descended into, so nested
// matches are returned as separate items. Order follows the document.
//
// The items are not validated; they must be checked before being scored.
func FindResultItems(node jsonvalue.Value) []jsonvalue.Object {
	out := make([]jsonvalue.Object, 0, 32)
	jsonvalue.Walk(node, func(current jsonvalue.Value) {
		obj, ok := current.AsObject()
		if ok && LooksLikeResult(obj) {
			out = append(out, obj)
		}
	})
	return out
}

func LooksLikeResult(obj jsonvalue.Object) bool {
	return obj.HasAny(rankKeys...) && obj.HasAny(nationKeys...)
}
