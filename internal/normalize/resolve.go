package normalize

// source is one location a canonical field may be read from.
type source struct {
	path  []string
	limit int // list sources only; 0 keeps every entry
}

func at(path ...string) source { return source{path: path} }

// Field resolution table. Sources are tried in order and the first present one wins; an empty
// list or blank string counts as absent, a zero score does not.
var (
	matchScoreSources   = []source{at("overview", "matchScore"), at("atsScore")}
	summarySources      = []source{at("overview", "summary"), at("summaryOfFit")}
	improvementsSources = []source{at("overview", "improvements"), {path: []string{"improvementSuggestions"}, limit: 3}}
)

// parent walks all but the last path element and returns the enclosing object and final key.
func (s source) parent(root object) (object, string, bool) {
	cur := root
	for _, key := range s.path[:len(s.path)-1] {
		next, ok := cur.obj(key)
		if !ok {
			return nil, "", false
		}
		cur = next
	}
	return cur, s.path[len(s.path)-1], true
}

func resolveNum(root object, sources []source) (float64, bool) {
	for _, s := range sources {
		if o, key, ok := s.parent(root); ok {
			if v, ok := o.num(key); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func resolveStr(root object, sources []source) string {
	for _, s := range sources {
		if o, key, ok := s.parent(root); ok {
			if v, ok := o.str(key); ok {
				return v
			}
		}
	}
	return ""
}

func resolveStrs(root object, sources []source) []string {
	for _, s := range sources {
		o, key, ok := s.parent(root)
		if !ok {
			continue
		}
		if v := o.strs(key); len(v) > 0 {
			if s.limit > 0 && len(v) > s.limit {
				v = v[:s.limit]
			}
			return v
		}
	}
	return nil
}
