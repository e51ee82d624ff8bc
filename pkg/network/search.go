package network

import "strings"

// DefaultSearchLimit is the number of matches returned when no limit is given.
const DefaultSearchLimit = 10

// Search returns stations whose name or code contains query, ignoring case.
// Matches follow dataset order, appear once per code, and are truncated to
// limit (DefaultSearchLimit when limit <= 0). A blank query matches nothing.
func (n *Network) Search(query string, limit int) []*Node {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*Node{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	out := []*Node{}
	for _, code := range n.codes {
		node := n.registry[code]
		if strings.Contains(strings.ToLower(node.Name), q) || strings.Contains(strings.ToLower(node.Code), q) {
			out = append(out, node)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
