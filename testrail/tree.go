package testrail

import "fmt"

// SectionNode is a section with its children attached.
type SectionNode struct {
	Section
	Children map[int64]*SectionNode
}

// SectionTree maps root section ids to fully nested section records.
type SectionTree map[int64]*SectionNode

// BuildSectionTree rebuilds the nested section hierarchy from the flat,
// depth-tagged listing the API returns. Levels are processed deepest first,
// so a parent is always materialized with a children container before any of
// its children attach to it. Every record materializes exactly once; roots
// (nil parent) enter the result exactly once.
//
// A parent reference pointing outside the listing means the remote store
// itself is inconsistent, which is an error rather than a node to drop.
func BuildSectionTree(sections []Section) (SectionTree, error) {
	flat := make(map[int64]Section, len(sections))
	maxDepth := 0
	for _, section := range sections {
		flat[section.ID] = section
		if section.Depth > maxDepth {
			maxDepth = section.Depth
		}
	}

	tree := SectionTree{}
	nodes := map[int64]*SectionNode{}
	materialize := func(section Section) *SectionNode {
		if node, ok := nodes[section.ID]; ok {
			return node
		}
		node := &SectionNode{Section: section, Children: map[int64]*SectionNode{}}
		nodes[section.ID] = node
		return node
	}

	for depth := maxDepth; depth >= 0; depth-- {
		for _, section := range sections {
			if section.Depth != depth {
				continue
			}

			node := materialize(section)
			if section.ParentID == nil {
				tree[section.ID] = node
				continue
			}

			parent, ok := flat[*section.ParentID]
			if !ok {
				return nil, fmt.Errorf("section %d (%s) references unknown parent section %d", section.ID, section.Name, *section.ParentID)
			}
			materialize(parent).Children[section.ID] = node
		}
	}

	return tree, nil
}
