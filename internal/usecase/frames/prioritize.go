package frames

import "sort"

// Prioritize orders frames for interaction retries: the main frame
// first, then embedded frames sorted by how identifiable they are. A
// frame with an accessible label beats one with only a title, which
// beats one with only a name; anonymous frames go last. Ties keep
// document order. Frames whose content is not accessible are dropped
// unless includeInaccessible is set.
func Prioritize(frames []DiscoveredFrame, includeInaccessible bool) []DiscoveredFrame {
	var main []DiscoveredFrame
	var rest []DiscoveredFrame

	for _, f := range frames {
		switch {
		case f.Context.IsMain():
			main = append(main, f)
		case f.Context.IsAccessible || includeInaccessible:
			rest = append(rest, f)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		ri, rj := labelRank(rest[i]), labelRank(rest[j])
		if ri != rj {
			return ri < rj
		}
		return rest[i].Context.Index < rest[j].Context.Index
	})

	return append(main, rest...)
}

func labelRank(f DiscoveredFrame) int {
	switch {
	case f.Context.AccessibleLabel != "":
		return 0
	case f.Context.Title != "":
		return 1
	case f.Context.Name != "":
		return 2
	default:
		return 3
	}
}
