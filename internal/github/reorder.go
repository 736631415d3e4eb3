package github

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// one rename produced by a reorder
type RenameOp struct {
	From string
	To   string
}

var orderPrefix = regexp.MustCompile(`^[0-9]+_`)

// PlanReorder maps the files of a catalog directory onto fresh NN_ prefixes
// following the given order of bare story names (prefix and extension
// stripped). Files not named in the order keep their position after the
// ordered ones. Renames that change nothing are omitted.
func PlanReorder(entries []Entry, order []string) ([]RenameOp, error) {
	byStory := make(map[string]Entry, len(entries))
	var stories []string
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		name := storyKey(e.Name)
		if _, dup := byStory[name]; dup {
			return nil, fmt.Errorf("ambiguous story name %q", name)
		}
		byStory[name] = e
		stories = append(stories, name)
	}

	ranked := make([]string, 0, len(stories))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		key := storyKey(name)
		if _, ok := byStory[key]; !ok {
			return nil, fmt.Errorf("unknown story %q", name)
		}
		if seen[key] {
			return nil, fmt.Errorf("story %q listed twice", name)
		}
		seen[key] = true
		ranked = append(ranked, key)
	}

	// remaining files keep their current relative order
	sort.SliceStable(stories, func(i, j int) bool {
		return byStory[stories[i]].Name < byStory[stories[j]].Name
	})
	for _, name := range stories {
		if !seen[name] {
			ranked = append(ranked, name)
		}
	}

	var ops []RenameOp
	for i, name := range ranked {
		entry := byStory[name]
		ext := extension(entry.Name)
		newName := fmt.Sprintf("%02d_%s%s", i+1, name, ext)
		if newName == entry.Name {
			continue
		}
		dir := strings.TrimSuffix(entry.Path, entry.Name)
		ops = append(ops, RenameOp{From: entry.Path, To: dir + newName})
	}
	return ops, nil
}

// Reorder applies a planned reorder against the repository.
func (c *Client) Reorder(ctx context.Context, dir string, order []string) error {
	entries, err := c.List(ctx, dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	ops, err := PlanReorder(entries, order)
	if err != nil {
		return err
	}

	for _, op := range ops {
		message := fmt.Sprintf("Reorder %s -> %s", op.From, op.To)
		if err := c.Rename(ctx, op.From, op.To, message); err != nil {
			return err
		}
	}
	c.log.Debugw("reordered", "dir", dir, "renames", len(ops))
	return nil
}

// bare story name: numeric prefix and extension stripped
func storyKey(fileName string) string {
	name := orderPrefix.ReplaceAllString(fileName, "")
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

func extension(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i > 0 {
		return fileName[i:]
	}
	return ""
}
