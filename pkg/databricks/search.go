package databricks

import (
	"context"
	"slices"
)

// Search lists the objects under dirPath whose type is in fileTypes
// (DefaultSearchTypes when none are given). With recursive set it descends
// into every DIRECTORY child, whether or not directories are requested, and
// returns results in pre-order: a parent entry precedes its descendants.
//
// The first failure aborts the walk.
func (c *WorkspaceClient) Search(ctx context.Context, dirPath string, recursive bool, fileTypes ...ObjectType) ([]WorkspaceObject, error) {
	if len(fileTypes) == 0 {
		fileTypes = DefaultSearchTypes
	}

	results, err := c.search(ctx, dirPath, recursive, fileTypes, 0, nil)
	if err != nil {
		return nil, wrapInternal(err, "search of %s failed", dirPath)
	}
	return results, nil
}

func (c *WorkspaceClient) search(ctx context.Context, dirPath string, recursive bool, fileTypes []ObjectType, depth int, results []WorkspaceObject) ([]WorkspaceObject, error) {
	if depth > MaxTreeDepth {
		return nil, newInternalError("search of %s exceeds maximum tree depth", dirPath)
	}

	children, err := c.ListContents(ctx, dirPath)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		if slices.Contains(fileTypes, child.ObjectType) {
			results = append(results, child)
		}
		if recursive && child.ObjectType == ObjectTypeDirectory {
			results, err = c.search(ctx, child.Path, recursive, fileTypes, depth+1, results)
			if err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}
