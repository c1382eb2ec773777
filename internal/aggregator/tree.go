package aggregator

import (
	"fmt"
	"math"

	"github.com/ppiankov/codeinsight/internal/models"
)

// RootID is the id of the tree's root node.
const RootID = "root"

// MaxCommentColor is the upper bound of the treemap color scale.
const MaxCommentColor = 0.4

// BuildTree arranges files into a directory hierarchy below basePath.
// Directory totals are the sums of their children. Node ids are the node
// name plus a per-name occurrence counter ("src__0", "src__1"), assigned in
// depth-first order so they are unique across the tree.
func BuildTree(files []models.FileStat, basePath string) *models.TreeNode {
	root := &models.TreeNode{ID: RootID, Name: RootID}
	index := map[*models.TreeNode]map[string]*models.TreeNode{}

	for _, f := range files {
		parts := relativeParts(f.Path, basePath)
		if len(parts) == 0 {
			continue
		}

		node := root
		for _, part := range parts {
			children, ok := index[node]
			if !ok {
				children = map[string]*models.TreeNode{}
				index[node] = children
			}
			child, ok := children[part]
			if !ok {
				child = &models.TreeNode{Name: part}
				children[part] = child
				node.Children = append(node.Children, child)
			}
			node = child
		}

		// Only leaves carry their own counts; a repeated path adds up.
		node.Code += f.Code
		node.Comments += f.Comments
		node.Blanks += f.Blanks
		for name, n := range f.Insights {
			if node.Insights == nil {
				node.Insights = make(map[string]int)
			}
			node.Insights[name] += n
		}
	}

	counts := map[string]int{}
	assignIDs(root, counts)
	rollUp(root)

	return root
}

func assignIDs(node *models.TreeNode, counts map[string]int) {
	for _, child := range node.Children {
		n, seen := counts[child.Name]
		if seen {
			n++
		}
		counts[child.Name] = n
		child.ID = fmt.Sprintf("%s__%d", child.Name, n)
		child.Parent = node.ID
		assignIDs(child, counts)
	}
}

func rollUp(node *models.TreeNode) {
	if node.IsLeaf() {
		return
	}
	for _, child := range node.Children {
		rollUp(child)
		node.Code += child.Code
		node.Comments += child.Comments
		node.Blanks += child.Blanks
		for name, n := range child.Insights {
			if node.Insights == nil {
				node.Insights = make(map[string]int)
			}
			node.Insights[name] += n
		}
	}
}

// Treemap flattens the tree into parallel arrays, children before their
// parent and the root last. Values are log10(code+1); colors are the
// comment ratio.
func Treemap(root *models.TreeNode, insights []string) *models.Treemap {
	tm := &models.Treemap{
		RangeColor: [2]float64{0, MaxCommentColor},
	}
	if len(insights) > 0 {
		tm.Insights = make(map[string][]int, len(insights))
	}

	var walk func(n *models.TreeNode)
	walk = func(n *models.TreeNode) {
		for _, child := range n.Children {
			walk(child)
		}
		tm.IDs = append(tm.IDs, n.ID)
		tm.Names = append(tm.Names, n.Name)
		tm.Parents = append(tm.Parents, n.Parent)
		tm.Values = append(tm.Values, math.Log10(float64(n.Code)+1))
		tm.Colors = append(tm.Colors, models.Ratio(n.Comments, n.Code+n.Comments+n.Blanks))
		tm.Code = append(tm.Code, n.Code)
		tm.Comments = append(tm.Comments, n.Comments)
		tm.Blanks = append(tm.Blanks, n.Blanks)
		for _, name := range insights {
			tm.Insights[name] = append(tm.Insights[name], n.Insights[name])
		}
	}

	walk(root)

	return tm
}
