package sorter

import (
	"sort"

	"github.com/layoutkit/pagesort/model"
)

// Flattener walks the final groups in order and stamps every element with
// its group ID, its rank within the group, and its global reading-order
// rank. The flat global order is the only contract the downstream
// formatter and persistence layers rely on.
type Flattener struct{}

// NewFlattener creates a flattener.
func NewFlattener() *Flattener {
	return &Flattener{}
}

// Flatten assigns OrderInQuestion 0..N-1 across all elements, with no
// gaps and no reuse, and returns the elements in that order. Within a
// group the anchor is rank 0 and question_text children come before
// other children; remaining children keep their established order.
func (f *Flattener) Flatten(groups []Group) []*model.Element {
	var ordered []*model.Element
	global := 0

	for gi := range groups {
		group := &groups[gi]

		members := make([]*model.Element, 0, group.Size())
		if group.Anchor != nil {
			members = append(members, group.Anchor)
		}

		children := make([]*model.Element, len(group.Children))
		copy(children, group.Children)
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Class == model.ClassQuestionText &&
				children[j].Class != model.ClassQuestionText
		})
		members = append(members, children...)

		for local, e := range members {
			e.GroupID = gi
			e.OrderInGroup = local
			e.OrderInQuestion = global
			global++
			ordered = append(ordered, e)
		}
	}

	return ordered
}
