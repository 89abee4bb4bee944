package usecase

import "postboard/internal/entity"

// BuildCommentTree nests comments under their parents. Input order is kept at
// every level, so comments sorted oldest first stay that way. A comment whose
// parent is not in the slice is treated as top level.
func BuildCommentTree(comments []entity.Comment) []*entity.CommentNode {
	nodes := make(map[string]*entity.CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &entity.CommentNode{Comment: c, Replies: []*entity.CommentNode{}}
	}

	roots := make([]*entity.CommentNode, 0)
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// wouldCycle reports whether making parentID the parent of id would put id
// under itself.
func wouldCycle(comments []entity.Comment, id, parentID string) bool {
	parents := make(map[string]string, len(comments))
	for _, c := range comments {
		if c.ParentID != nil {
			parents[c.ID] = *c.ParentID
		}
	}

	seen := make(map[string]bool)
	for current := parentID; current != ""; current = parents[current] {
		if current == id {
			return true
		}
		if seen[current] {
			return true
		}
		seen[current] = true
	}
	return false
}
