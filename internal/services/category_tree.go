package services

import (
	"sort"

	"github.com/localstore/storeapi/internal/models"
)

// TreeNode is one category with its children nested beneath it.
type TreeNode struct {
	ID       uint64     `json:"id"`
	Name     string     `json:"name"`
	ParentID *uint64    `json:"parentCategoryId"`
	Children []TreeNode `json:"children"`
}

// BuildCategoryTree assembles the flat category list into a forest in
// two passes, keyed by root category id. A category whose parent is
// absent from the input becomes a root of its own, so a filtered subset
// still yields a usable forest. Children are ordered by id so output is
// stable across runs.
func BuildCategoryTree(categories []models.Category) map[uint64]*TreeNode {
	nodes := make(map[uint64]*TreeNode, len(categories))
	for i := range categories {
		c := &categories[i]
		nodes[c.ID] = &TreeNode{
			ID:       c.ID,
			Name:     c.Name,
			ParentID: c.ParentID,
			Children: []TreeNode{},
		}
	}

	rootIDs := make([]uint64, 0, len(categories))
	childIDs := make(map[uint64][]uint64, len(categories))
	for i := range categories {
		c := &categories[i]
		if c.ParentID == nil {
			rootIDs = append(rootIDs, c.ID)
			continue
		}
		if _, ok := nodes[*c.ParentID]; !ok {
			// Parent filtered out of the listing: promote to root.
			rootIDs = append(rootIDs, c.ID)
			continue
		}
		childIDs[*c.ParentID] = append(childIDs[*c.ParentID], c.ID)
	}

	var attach func(node *TreeNode)
	attach = func(node *TreeNode) {
		ids := childIDs[node.ID]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			child := nodes[id]
			attach(child)
			node.Children = append(node.Children, *child)
		}
	}

	tree := make(map[uint64]*TreeNode, len(rootIDs))
	for _, id := range rootIDs {
		attach(nodes[id])
		tree[id] = nodes[id]
	}
	return tree
}
