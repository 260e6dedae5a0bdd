package role

import (
	internal "github.com/frahmantamala/business-management/internal"
)

// RoleNode is a role plus its resolved children.
type RoleNode struct {
	Role     *Role       `json:"role"`
	Children []*RoleNode `json:"children"`
}

// BuildTree returns the forest of roles under parentID. A role is a
// child of parentID when its ParentID matches exactly, or — only at the
// true top level (parentID == nil) — when its own parent reference is
// absent or empty. The dual condition tolerates stores that persist ""
// where others persist null and governs where roles appear in the
// rendered tree, so it must not be simplified.
//
// Construction is pure over the input slice and bounded by total node
// count: already-placed roles are never placed twice, so inconsistent
// or cyclic parent references cannot recurse unboundedly.
func BuildTree(roles []*Role, parentID *string) []*RoleNode {
	visited := make(map[string]bool, len(roles))
	return buildSubtree(roles, parentID, true, visited)
}

func buildSubtree(roles []*Role, parentID *string, atRoot bool, visited map[string]bool) []*RoleNode {
	var nodes []*RoleNode

	for _, r := range roles {
		if visited[r.ID] {
			continue
		}
		if !isChildOf(r, parentID, atRoot) {
			continue
		}
		visited[r.ID] = true

		childParent := r.ID
		nodes = append(nodes, &RoleNode{
			Role:     r,
			Children: buildSubtree(roles, &childParent, false, visited),
		})
	}

	return nodes
}

func isChildOf(r *Role, parentID *string, atRoot bool) bool {
	if parentID != nil && r.ParentID != nil && *r.ParentID == *parentID {
		return true
	}
	if atRoot && parentID == nil && !r.HasParent() {
		return true
	}
	return false
}

// AncestorChain walks parent references from r upward and returns the
// chain excluding r itself, root last. Cyclic references yield
// ErrCyclicHierarchy instead of looping.
func AncestorChain(r *Role, all []*Role) ([]*Role, error) {
	byID := indexByID(all)
	visited := map[string]bool{r.ID: true}

	var chain []*Role
	current := r
	for current.HasParent() {
		parent, ok := byID[*current.ParentID]
		if !ok {
			// dangling reference: the chain ends where the data does
			break
		}
		if visited[parent.ID] {
			return nil, internal.ErrCyclicHierarchy
		}
		visited[parent.ID] = true
		chain = append(chain, parent)
		current = parent
	}
	return chain, nil
}

// Descendants returns every role below r, depth first. Traversal is
// bounded by a visited set so cyclic input terminates with
// ErrCyclicHierarchy.
func Descendants(r *Role, all []*Role) ([]*Role, error) {
	childrenOf := make(map[string][]*Role, len(all))
	for _, candidate := range all {
		if candidate.HasParent() {
			childrenOf[*candidate.ParentID] = append(childrenOf[*candidate.ParentID], candidate)
		}
	}

	visited := map[string]bool{r.ID: true}
	var out []*Role

	stack := append([]*Role(nil), childrenOf[r.ID]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[n.ID] {
			return nil, internal.ErrCyclicHierarchy
		}
		visited[n.ID] = true
		out = append(out, n)
		stack = append(stack, childrenOf[n.ID]...)
	}

	return out, nil
}

// WouldCycle reports whether assigning newParentID to roleID would make
// the role its own ancestor.
func WouldCycle(roleID string, newParentID string, all []*Role) bool {
	if roleID == newParentID {
		return true
	}
	byID := indexByID(all)
	visited := make(map[string]bool, len(all))

	current := newParentID
	for current != "" {
		if current == roleID {
			return true
		}
		if visited[current] {
			// pre-existing cycle above the new parent; refuse the assignment
			return true
		}
		visited[current] = true

		node, ok := byID[current]
		if !ok || !node.HasParent() {
			return false
		}
		current = *node.ParentID
	}
	return false
}

// CanDelete is the client-side pre-check for role deletion. The
// directory service stays authoritative; on conflict its rejection
// wins.
func CanDelete(r *Role, all []*Role) error {
	if r.IsProtected() {
		return internal.ErrProtectedRole
	}
	for _, other := range all {
		if other.ID == r.ID {
			continue
		}
		if other.HasParent() && *other.ParentID == r.ID {
			return internal.ErrHasDependents
		}
	}
	return nil
}

func indexByID(all []*Role) map[string]*Role {
	byID := make(map[string]*Role, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	return byID
}
