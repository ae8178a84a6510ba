package blog

// CountComments counts the visible comments of a tree, replies included
func CountComments(comments []*Comment) int {
	n := 0
	for _, c := range comments {
		if c == nil {
			continue
		}
		if !c.IsDeleted {
			n++
		}
		n += CountComments(c.Replies)
	}
	return n
}

// FlattenComments lists a tree depth first: each comment is followed by its replies
func FlattenComments(comments []*Comment) []*Comment {
	var out []*Comment
	var walk func([]*Comment)
	walk = func(level []*Comment) {
		for _, c := range level {
			if c == nil {
				continue
			}
			out = append(out, c)
			walk(c.Replies)
		}
	}
	walk(comments)
	return out
}

// BuildCommentTree nests a flat list by ParentID, keeping the input order within each level.
// Comments whose parent is missing are kept at the top level.
func BuildCommentTree(flat []*Comment) []*Comment {
	byID := make(map[int64]*Comment, len(flat))
	for _, c := range flat {
		if c == nil {
			continue
		}
		c.Replies = nil
		byID[c.ID] = c
	}

	var roots []*Comment
	for _, c := range flat {
		if c == nil {
			continue
		}
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && !reaches(byID, parent, c.ID) {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// reaches reports whether id is from or one of its ancestors, which would make attaching a cycle
func reaches(byID map[int64]*Comment, from *Comment, id int64) bool {
	for steps := 0; from != nil && steps <= len(byID); steps++ {
		if from.ID == id {
			return true
		}
		if from.ParentID == nil {
			return false
		}
		from = byID[*from.ParentID]
	}
	return from != nil
}
