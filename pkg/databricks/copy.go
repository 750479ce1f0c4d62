package databricks

import (
	"context"
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"

	"wsclient/internal/logging"
	"wsclient/internal/pathutil"
)

// MaxTreeDepth bounds the recursion of Copy and Search.
const MaxTreeDepth = 64

// Exists reports whether objectPath exists. A NotFound answer is false; any
// other error is returned unchanged.
func (c *WorkspaceClient) Exists(ctx context.Context, objectPath string) (bool, error) {
	_, err := c.GetStatus(ctx, objectPath)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// Copy copies sourcePath to destinationPath. The remote API has no copy
// primitive, so notebooks are exported and re-imported and directories are
// recreated child by child.
//
// For directories a failed child does not stop its siblings: the result is
// true only if every child copy succeeded, and the child errors are logged.
// Errors about the top-level source or destination are returned. A
// destination equal to or inside the source is rejected before any request.
func (c *WorkspaceClient) Copy(ctx context.Context, sourcePath, destinationPath string, overwrite bool) (bool, error) {
	if err := validatePath("source path", sourcePath); err != nil {
		return false, err
	}
	if err := validatePath("destination path", destinationPath); err != nil {
		return false, err
	}
	if isWithin(sourcePath, destinationPath) {
		return false, newValidationError(nil, "cannot copy %s into itself (%s)", sourcePath, destinationPath)
	}
	return c.copy(ctx, sourcePath, destinationPath, overwrite, 0)
}

// isWithin reports whether p is root or lies below it.
func isWithin(root, p string) bool {
	root, p = pathutil.Clean(root), pathutil.Clean(p)
	if root == pathutil.Separator || p == root {
		return true
	}
	return strings.HasPrefix(p, root+pathutil.Separator)
}

func (c *WorkspaceClient) copy(ctx context.Context, sourcePath, destinationPath string, overwrite bool, depth int) (bool, error) {
	if depth > MaxTreeDepth {
		return false, newInternalError("copy of %s exceeds maximum tree depth", sourcePath)
	}

	source, err := c.GetStatus(ctx, sourcePath)
	if err != nil {
		if IsNotFound(err) {
			return false, &APIError{
				StatusCode: http.StatusNotFound,
				ErrorCode:  codeResourceDoesNotExist,
				Message:    "source path " + sourcePath + " does not exist",
				err:        err,
			}
		}
		return false, wrapInternal(err, "failed to stat copy source %s", sourcePath)
	}

	if !overwrite {
		_, err := c.GetStatus(ctx, destinationPath)
		if err == nil {
			return false, newConflictError("destination path %s already exists", destinationPath)
		}
		if !IsNotFound(err) {
			return false, wrapInternal(err, "failed to stat copy destination %s", destinationPath)
		}
	}

	switch {
	case source.IsNotebook():
		return c.copyNotebook(ctx, source, destinationPath, overwrite)
	case source.ObjectType == ObjectTypeDirectory:
		return c.copyDirectory(ctx, source, destinationPath, overwrite, depth)
	default:
		return false, newUnsupportedError("cannot copy %s: unsupported object type %s", sourcePath, source.ObjectType)
	}
}

func (c *WorkspaceClient) copyNotebook(ctx context.Context, source *WorkspaceObject, destinationPath string, overwrite bool) (bool, error) {
	content, ok, err := c.ExportNotebook(ctx, source.Path, FormatSource)
	if err != nil {
		return false, wrapInternal(err, "failed to export %s", source.Path)
	}
	if !ok {
		return false, newInternalError("export of %s returned no content", source.Path)
	}

	err = c.ImportNotebook(ctx, destinationPath, source.Language, content, FormatSource, overwrite)
	if err != nil {
		return false, wrapInternal(err, "failed to import %s", destinationPath)
	}
	logging.Debugf("Copied notebook %s to %s", source.Path, destinationPath)
	return true, nil
}

func (c *WorkspaceClient) copyDirectory(ctx context.Context, source *WorkspaceObject, destinationPath string, overwrite bool, depth int) (bool, error) {
	if err := c.CreateDirectory(ctx, destinationPath); err != nil {
		return false, wrapInternal(err, "failed to create directory %s", destinationPath)
	}

	children, err := c.ListContents(ctx, source.Path)
	if err != nil {
		return false, wrapInternal(err, "failed to list %s", source.Path)
	}

	success := true
	var errs *multierror.Error
	for _, child := range children {
		childDestination := pathutil.Join(destinationPath, child.Name())
		ok, err := c.copy(ctx, child.Path, childDestination, overwrite, depth+1)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		success = success && ok
	}

	if err := errs.ErrorOrNil(); err != nil {
		logging.Warnf("Copy of %s to %s was incomplete: %v", source.Path, destinationPath, err)
	}
	return success, nil
}
