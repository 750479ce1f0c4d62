package databricks

import "context"

// WorkspaceAPI is the operation surface of WorkspaceClient.
// Callers can depend on it to swap in test doubles.
type WorkspaceAPI interface {
	ListContents(ctx context.Context, dirPath string) ([]WorkspaceObject, error)
	GetStatus(ctx context.Context, objectPath string) (*WorkspaceObject, error)
	Delete(ctx context.Context, objectPath string, recursive bool) error
	CreateDirectory(ctx context.Context, dirPath string) error
	ImportNotebook(ctx context.Context, notebookPath string, language Language, content string, format Format, overwrite bool) error
	ExportNotebook(ctx context.Context, notebookPath string, format Format) (string, bool, error)
	GetPermissions(ctx context.Context, objectPath string) (*ObjectPermissions, error)
	UpdatePermissions(ctx context.Context, objectPath string, acl []AccessControlEntry) (*ObjectPermissions, error)
	Move(ctx context.Context, sourcePath, destinationPath string, overwrite bool) error
	Copy(ctx context.Context, sourcePath, destinationPath string, overwrite bool) (bool, error)
	Search(ctx context.Context, dirPath string, recursive bool, fileTypes ...ObjectType) ([]WorkspaceObject, error)
	Exists(ctx context.Context, objectPath string) (bool, error)
}

var _ WorkspaceAPI = (*WorkspaceClient)(nil)
