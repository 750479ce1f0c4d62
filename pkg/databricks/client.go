package databricks

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"net/http"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/client"
	"github.com/databricks/databricks-sdk-go/service/workspace"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"wsclient/internal/logging"
	"wsclient/internal/pathutil"
)

type apiDoer interface {
	Do(ctx context.Context, method, path string,
		headers map[string]string, queryParams map[string]any, request, response any,
		visitors ...func(*http.Request) error) error
}

// workspaceClient is the subset of workspace.WorkspaceInterface used for the
// endpoints the SDK already types. Everything else goes through apiDoer.
type workspaceClient interface {
	Delete(ctx context.Context, request workspace.Delete) error
	Mkdirs(ctx context.Context, request workspace.Mkdirs) error
	Import(ctx context.Context, request workspace.Import) error
}

// WorkspaceClient issues one request per primitive operation against
// https://<host>/api/2.0/workspace. It holds no state beyond its
// configuration and is safe for concurrent use.
type WorkspaceClient struct {
	config          ClientConfig
	workspaceClient workspaceClient
	apiClient       apiDoer
}

// New validates cfg and builds a client authenticated with cfg.Token.
func New(cfg ClientConfig) (*WorkspaceClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newValidationError(err, "invalid client config")
	}

	w, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:               cfg.hostURL(),
		Token:              cfg.Token,
		AuthType:           "pat",
		HTTPTimeoutSeconds: int(math.Ceil(cfg.timeout().Seconds())),
	})
	if err != nil {
		return nil, err
	}

	databricksClient, err := client.New(w.Config)
	if err != nil {
		return nil, err
	}

	logging.Debugf("Created workspace client for %s", cfg)
	return NewWithDeps(cfg, w.Workspace, databricksClient), nil
}

func NewWithDeps(cfg ClientConfig, workspaceClient workspaceClient, apiClient apiDoer) *WorkspaceClient {
	return &WorkspaceClient{
		config:          cfg,
		workspaceClient: workspaceClient,
		apiClient:       apiClient,
	}
}

func (c *WorkspaceClient) Config() ClientConfig {
	return c.config
}

func validatePath(name, p string) error {
	err := validation.Validate(p,
		validation.Required,
		validation.By(func(value any) error {
			if !pathutil.IsAbs(value.(string)) {
				return errors.New("must be an absolute workspace path")
			}
			return nil
		}),
	)
	if err != nil {
		return newValidationError(err, "invalid %s %q", name, p)
	}
	return nil
}

type listResponse struct {
	Objects []map[string]any `json:"objects"`
}

// ListContents returns the objects directly under dirPath, in the order the
// remote lists them.
func (c *WorkspaceClient) ListContents(ctx context.Context, dirPath string) ([]WorkspaceObject, error) {
	if err := validatePath("path", dirPath); err != nil {
		return nil, err
	}
	logging.Debugf("GET %s/list path=%s", basePath, dirPath)

	var resp listResponse
	err := c.apiClient.Do(ctx, http.MethodGet, basePath+"/list", nil,
		map[string]any{"path": dirPath}, nil, &resp)
	if err != nil {
		return nil, fromSDKError(err)
	}

	objects := make([]WorkspaceObject, 0, len(resp.Objects))
	for _, raw := range resp.Objects {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (c *WorkspaceClient) GetStatus(ctx context.Context, objectPath string) (*WorkspaceObject, error) {
	if err := validatePath("path", objectPath); err != nil {
		return nil, err
	}
	logging.Debugf("GET %s/get-status path=%s", basePath, objectPath)

	var raw map[string]any
	err := c.apiClient.Do(ctx, http.MethodGet, basePath+"/get-status", nil,
		map[string]any{"path": objectPath}, nil, &raw)
	if err != nil {
		return nil, fromSDKError(err)
	}

	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// Delete removes the object at objectPath. Non-empty directories require
// recursive; otherwise the remote rejects the call and the error is returned.
func (c *WorkspaceClient) Delete(ctx context.Context, objectPath string, recursive bool) error {
	if err := validatePath("path", objectPath); err != nil {
		return err
	}
	logging.Debugf("POST %s/delete path=%s recursive=%t", basePath, objectPath, recursive)

	return fromSDKError(c.workspaceClient.Delete(ctx, workspace.Delete{
		Path:      objectPath,
		Recursive: recursive,
	}))
}

// CreateDirectory creates dirPath and any missing parents. It is a no-op if
// the directory already exists.
func (c *WorkspaceClient) CreateDirectory(ctx context.Context, dirPath string) error {
	if err := validatePath("path", dirPath); err != nil {
		return err
	}
	logging.Debugf("POST %s/mkdirs path=%s", basePath, dirPath)

	return fromSDKError(c.workspaceClient.Mkdirs(ctx, workspace.Mkdirs{
		Path: dirPath,
	}))
}

// ImportNotebook stores content at notebookPath. The content is base64-encoded
// before transmission. Without overwrite an existing object is a Conflict.
func (c *WorkspaceClient) ImportNotebook(ctx context.Context, notebookPath string, language Language, content string, format Format, overwrite bool) error {
	if err := validatePath("path", notebookPath); err != nil {
		return err
	}
	if format == "" {
		format = FormatSource
	}
	logging.Debugf("POST %s/import path=%s language=%s format=%s overwrite=%t",
		basePath, notebookPath, language, format, overwrite)

	return fromSDKError(c.workspaceClient.Import(ctx, workspace.Import{
		Path:      notebookPath,
		Language:  language,
		Content:   base64.StdEncoding.EncodeToString([]byte(content)),
		Format:    workspace.ImportFormat(format),
		Overwrite: overwrite,
	}))
}

type exportResponse struct {
	Content  *string `json:"content"`
	FileType string  `json:"file_type,omitempty"`
}

// ExportNotebook returns the decoded notebook text. ok is false when the
// remote answered successfully but sent no content; every failed call is an
// error instead.
func (c *WorkspaceClient) ExportNotebook(ctx context.Context, notebookPath string, format Format) (content string, ok bool, err error) {
	if err := validatePath("path", notebookPath); err != nil {
		return "", false, err
	}
	if format == "" {
		format = FormatSource
	}
	logging.Debugf("GET %s/export path=%s format=%s", basePath, notebookPath, format)

	var resp exportResponse
	err = c.apiClient.Do(ctx, http.MethodGet, basePath+"/export", nil,
		map[string]any{"path": notebookPath, "format": string(format)}, nil, &resp)
	if err != nil {
		return "", false, fromSDKError(err)
	}
	if resp.Content == nil {
		logging.Debugf("Export of %s returned no content", notebookPath)
		return "", false, nil
	}

	data, err := base64.StdEncoding.DecodeString(*resp.Content)
	if err != nil {
		return "", false, wrapInternal(err, "failed to decode export of %s", notebookPath)
	}
	return string(data), true, nil
}

func (c *WorkspaceClient) GetPermissions(ctx context.Context, objectPath string) (*ObjectPermissions, error) {
	if err := validatePath("path", objectPath); err != nil {
		return nil, err
	}
	logging.Debugf("GET %s/permissions path=%s", basePath, objectPath)

	var resp ObjectPermissions
	err := c.apiClient.Do(ctx, http.MethodGet, basePath+"/permissions", nil,
		map[string]any{"path": objectPath}, nil, &resp)
	if err != nil {
		return nil, fromSDKError(err)
	}
	return &resp, nil
}

// UpdatePermissions sends acl for objectPath. Entries are not validated
// locally; whether they replace or merge is up to the remote.
func (c *WorkspaceClient) UpdatePermissions(ctx context.Context, objectPath string, acl []AccessControlEntry) (*ObjectPermissions, error) {
	if err := validatePath("path", objectPath); err != nil {
		return nil, err
	}
	if acl == nil {
		acl = []AccessControlEntry{}
	}
	logging.Debugf("PATCH %s/permissions path=%s entries=%d", basePath, objectPath, len(acl))

	reqBody := map[string]any{
		"access_control_list": acl,
	}

	var resp ObjectPermissions
	err := c.apiClient.Do(ctx, http.MethodPatch, basePath+"/permissions", nil,
		map[string]any{"path": objectPath}, reqBody, &resp)
	if err != nil {
		return nil, fromSDKError(err)
	}
	return &resp, nil
}

// Move relocates sourcePath to destinationPath. Without overwrite an existing
// destination is a Conflict.
func (c *WorkspaceClient) Move(ctx context.Context, sourcePath, destinationPath string, overwrite bool) error {
	if err := validatePath("source path", sourcePath); err != nil {
		return err
	}
	if err := validatePath("destination path", destinationPath); err != nil {
		return err
	}
	logging.Debugf("POST %s/move source=%s destination=%s overwrite=%t",
		basePath, sourcePath, destinationPath, overwrite)

	reqBody := map[string]any{
		"source_path":      sourcePath,
		"destination_path": destinationPath,
		"overwrite":        overwrite,
	}

	return fromSDKError(c.apiClient.Do(ctx, http.MethodPost, basePath+"/move", nil, nil, reqBody, nil))
}
