package databricks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/databricks/databricks-sdk-go/apierr"
	"github.com/databricks/databricks-sdk-go/service/workspace"

	"wsclient/internal/pathutil"
)

// MockWorkspaceClient is a mock for the workspaceClient interface.
type MockWorkspaceClient struct {
	DeleteFunc func(ctx context.Context, request workspace.Delete) error
	MkdirsFunc func(ctx context.Context, request workspace.Mkdirs) error
	ImportFunc func(ctx context.Context, request workspace.Import) error
}

func (m *MockWorkspaceClient) Delete(ctx context.Context, request workspace.Delete) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, request)
	}
	return fmt.Errorf("not implemented")
}

func (m *MockWorkspaceClient) Mkdirs(ctx context.Context, request workspace.Mkdirs) error {
	if m.MkdirsFunc != nil {
		return m.MkdirsFunc(ctx, request)
	}
	return fmt.Errorf("not implemented")
}

func (m *MockWorkspaceClient) Import(ctx context.Context, request workspace.Import) error {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, request)
	}
	return fmt.Errorf("not implemented")
}

// MockAPIClient is a mock for apiDoer interface
type MockAPIClient struct {
	DoFunc func(ctx context.Context, method, path string,
		headers map[string]string, queryParams map[string]any, request, response any,
		visitors ...func(*http.Request) error) error
}

func (m *MockAPIClient) Do(ctx context.Context, method, path string,
	headers map[string]string, queryParams map[string]any, request, response any,
	visitors ...func(*http.Request) error) error {
	if m.DoFunc != nil {
		return m.DoFunc(ctx, method, path, headers, queryParams, request, response, visitors...)
	}
	return fmt.Errorf("not implemented")
}

// FakeWorkspace is an in-memory workspace that answers both the raw API
// calls and the typed SDK calls the way the remote service does, including
// its error codes. Every call is recorded as "<endpoint> <path>".
type FakeWorkspace struct {
	mu          sync.Mutex
	objects     map[string]*fakeObject
	failures    map[string]error
	omitContent map[string]bool
	nextID      int64
	calls       []string
}

type fakeObject struct {
	info    workspace.ObjectInfo
	content string
	acl     []AccessControlEntry
}

func NewFakeWorkspace() *FakeWorkspace {
	f := &FakeWorkspace{
		objects:     make(map[string]*fakeObject),
		failures:    make(map[string]error),
		omitContent: make(map[string]bool),
	}
	f.put("/", ObjectTypeDirectory, "", "")
	return f
}

// NewTestClient returns a WorkspaceClient whose transports are both served by f.
func NewTestClient(f *FakeWorkspace) *WorkspaceClient {
	return NewWithDeps(ClientConfig{Host: "fake.cloud.databricks.com", Token: "dapi-test"}, f, f)
}

func (f *FakeWorkspace) put(objectPath string, objectType ObjectType, language Language, content string) {
	f.nextID++
	f.objects[objectPath] = &fakeObject{
		info: workspace.ObjectInfo{
			Path:       objectPath,
			ObjectType: objectType,
			Language:   language,
			ObjectId:   f.nextID,
			ModifiedAt: time.Now().UnixMilli(),
			Size:       int64(len(content)),
		},
		content: content,
	}
}

func (f *FakeWorkspace) mkdirAll(dirPath string) {
	if dirPath == "/" || f.objects[dirPath] != nil {
		return
	}
	f.mkdirAll(parentPath(dirPath))
	f.put(dirPath, ObjectTypeDirectory, "", "")
}

func parentPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}
	return p[:i]
}

// AddDirectory creates dirPath and its parents.
func (f *FakeWorkspace) AddDirectory(dirPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mkdirAll(pathutil.Clean(dirPath))
}

// AddNotebook creates a notebook, creating parent directories as needed.
func (f *FakeWorkspace) AddNotebook(notebookPath string, language Language, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mkdirAll(parentPath(notebookPath))
	f.put(notebookPath, ObjectTypeNotebook, language, content)
}

// AddObject creates a non-notebook leaf such as a LIBRARY, REPO or FILE.
func (f *FakeWorkspace) AddObject(objectPath string, objectType ObjectType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mkdirAll(parentPath(objectPath))
	f.put(objectPath, objectType, "", "")
}

// FailOn makes every call to endpoint for objectPath fail with err.
// Endpoints are named as in the URL: "list", "get-status", "import", ...
func (f *FakeWorkspace) FailOn(endpoint, objectPath string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[endpoint+" "+objectPath] = err
}

// OmitExportContent makes export of objectPath succeed without a content field.
func (f *FakeWorkspace) OmitExportContent(objectPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.omitContent[objectPath] = true
}

func (f *FakeWorkspace) Has(objectPath string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[objectPath] != nil
}

func (f *FakeWorkspace) Object(objectPath string) (workspace.ObjectInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj := f.objects[objectPath]
	if obj == nil {
		return workspace.ObjectInfo{}, false
	}
	return obj.info, true
}

func (f *FakeWorkspace) Content(objectPath string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj := f.objects[objectPath]
	if obj == nil || obj.info.ObjectType != ObjectTypeNotebook {
		return "", false
	}
	return obj.content, true
}

// Calls returns the recorded calls in order.
func (f *FakeWorkspace) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many calls hit endpoint.
func (f *FakeWorkspace) CallCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.calls {
		if strings.HasPrefix(call, endpoint+" ") {
			n++
		}
	}
	return n
}

func (f *FakeWorkspace) begin(endpoint, objectPath string) error {
	f.calls = append(f.calls, endpoint+" "+objectPath)
	return f.failures[endpoint+" "+objectPath]
}

func (f *FakeWorkspace) children(dirPath string) []*fakeObject {
	prefix := strings.TrimSuffix(dirPath, "/") + "/"
	var result []*fakeObject
	for p, obj := range f.objects {
		if p == dirPath || !strings.HasPrefix(p, prefix) {
			continue
		}
		if !strings.Contains(strings.TrimPrefix(p, prefix), "/") {
			result = append(result, obj)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].info.Path < result[j].info.Path
	})
	return result
}

func (f *FakeWorkspace) subtree(root string) []string {
	prefix := strings.TrimSuffix(root, "/") + "/"
	var result []string
	for p := range f.objects {
		if p == root || strings.HasPrefix(p, prefix) {
			result = append(result, p)
		}
	}
	return result
}

func notFound(objectPath string) error {
	return &apierr.APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  codeResourceDoesNotExist,
		Message:    fmt.Sprintf("Path (%s) doesn't exist.", objectPath),
	}
}

func alreadyExists(objectPath string) error {
	return &apierr.APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  codeResourceAlreadyExists,
		Message:    fmt.Sprintf("Path (%s) already exists.", objectPath),
	}
}

func badRequest(code, format string, args ...any) error {
	return &apierr.APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  code,
		Message:    fmt.Sprintf(format, args...),
	}
}

func rawObject(info workspace.ObjectInfo) map[string]any {
	raw := map[string]any{
		"path":        info.Path,
		"object_type": string(info.ObjectType),
		"object_id":   info.ObjectId,
		"modified_at": info.ModifiedAt,
		"size":        info.Size,
		"resource_id": fmt.Sprintf("%d", info.ObjectId),
	}
	if info.Language != "" {
		raw["language"] = string(info.Language)
	}
	return raw
}

func respond(response any, payload any) error {
	if response == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, response)
}

func (f *FakeWorkspace) Do(ctx context.Context, method, urlPath string,
	headers map[string]string, queryParams map[string]any, request, response any,
	visitors ...func(*http.Request) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	endpoint := strings.TrimPrefix(urlPath, basePath+"/")
	objectPath, _ := queryParams["path"].(string)

	switch {
	case method == http.MethodGet && endpoint == "list":
		if err := f.begin(endpoint, objectPath); err != nil {
			return err
		}
		obj := f.objects[objectPath]
		if obj == nil {
			return notFound(objectPath)
		}
		if obj.info.ObjectType != ObjectTypeDirectory && obj.info.ObjectType != ObjectTypeRepo {
			return respond(response, map[string]any{"objects": []map[string]any{rawObject(obj.info)}})
		}
		objects := []map[string]any{}
		for _, child := range f.children(objectPath) {
			objects = append(objects, rawObject(child.info))
		}
		if len(objects) == 0 {
			return respond(response, map[string]any{})
		}
		return respond(response, map[string]any{"objects": objects})

	case method == http.MethodGet && endpoint == "get-status":
		if err := f.begin(endpoint, objectPath); err != nil {
			return err
		}
		obj := f.objects[objectPath]
		if obj == nil {
			return notFound(objectPath)
		}
		return respond(response, rawObject(obj.info))

	case method == http.MethodGet && endpoint == "export":
		if err := f.begin(endpoint, objectPath); err != nil {
			return err
		}
		obj := f.objects[objectPath]
		if obj == nil {
			return notFound(objectPath)
		}
		if obj.info.ObjectType != ObjectTypeNotebook {
			return badRequest("INVALID_PARAMETER_VALUE", "%s is not a notebook", objectPath)
		}
		if f.omitContent[objectPath] {
			return respond(response, map[string]any{})
		}
		return respond(response, map[string]any{
			"content":   base64.StdEncoding.EncodeToString([]byte(obj.content)),
			"file_type": "py",
		})

	case endpoint == "permissions" && (method == http.MethodGet || method == http.MethodPatch):
		if err := f.begin(endpoint, objectPath); err != nil {
			return err
		}
		obj := f.objects[objectPath]
		if obj == nil {
			return notFound(objectPath)
		}
		if method == http.MethodPatch {
			body, ok := request.(map[string]any)
			if !ok {
				return badRequest("INVALID_PARAMETER_VALUE", "malformed permissions request")
			}
			acl, ok := body["access_control_list"].([]AccessControlEntry)
			if !ok {
				return badRequest("INVALID_PARAMETER_VALUE", "access_control_list is required")
			}
			obj.acl = append([]AccessControlEntry(nil), acl...)
		}
		acl := obj.acl
		if acl == nil {
			acl = []AccessControlEntry{}
		}
		return respond(response, map[string]any{
			"object_id":           fmt.Sprintf("/%ss/%d", strings.ToLower(string(obj.info.ObjectType)), obj.info.ObjectId),
			"object_type":         strings.ToLower(string(obj.info.ObjectType)),
			"access_control_list": acl,
		})

	case method == http.MethodPost && endpoint == "move":
		body, _ := request.(map[string]any)
		source, _ := body["source_path"].(string)
		destination, _ := body["destination_path"].(string)
		overwrite, _ := body["overwrite"].(bool)
		if err := f.begin(endpoint, source); err != nil {
			return err
		}
		return f.move(source, destination, overwrite)
	}

	return fmt.Errorf("unexpected request: %s %s", method, urlPath)
}

func (f *FakeWorkspace) move(source, destination string, overwrite bool) error {
	if f.objects[source] == nil {
		return notFound(source)
	}
	if f.objects[parentPath(destination)] == nil {
		return notFound(parentPath(destination))
	}
	if f.objects[destination] != nil {
		if !overwrite {
			return alreadyExists(destination)
		}
		for _, p := range f.subtree(destination) {
			delete(f.objects, p)
		}
	}
	for _, p := range f.subtree(source) {
		obj := f.objects[p]
		delete(f.objects, p)
		obj.info.Path = destination + strings.TrimPrefix(p, source)
		f.objects[obj.info.Path] = obj
	}
	return nil
}

func (f *FakeWorkspace) Delete(ctx context.Context, request workspace.Delete) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("delete", request.Path); err != nil {
		return err
	}
	if f.objects[request.Path] == nil {
		return notFound(request.Path)
	}
	if len(f.children(request.Path)) > 0 && !request.Recursive {
		return badRequest("DIRECTORY_NOT_EMPTY", "Folder (%s) is not empty", request.Path)
	}
	for _, p := range f.subtree(request.Path) {
		delete(f.objects, p)
	}
	return nil
}

func (f *FakeWorkspace) Mkdirs(ctx context.Context, request workspace.Mkdirs) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("mkdirs", request.Path); err != nil {
		return err
	}
	for p := request.Path; p != "/"; p = parentPath(p) {
		if obj := f.objects[p]; obj != nil && obj.info.ObjectType != ObjectTypeDirectory {
			return alreadyExists(p)
		}
	}
	f.mkdirAll(request.Path)
	return nil
}

func (f *FakeWorkspace) Import(ctx context.Context, request workspace.Import) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("import", request.Path); err != nil {
		return err
	}
	if f.objects[parentPath(request.Path)] == nil {
		return notFound(parentPath(request.Path))
	}
	if f.objects[request.Path] != nil && !request.Overwrite {
		return alreadyExists(request.Path)
	}
	data, err := base64.StdEncoding.DecodeString(request.Content)
	if err != nil {
		return badRequest("INVALID_PARAMETER_VALUE", "content is not valid base64")
	}
	if request.Format == workspace.ImportFormat(FormatSource) && request.Language == "" {
		return badRequest("INVALID_PARAMETER_VALUE", "language is required for SOURCE imports")
	}
	f.put(request.Path, ObjectTypeNotebook, request.Language, string(data))
	return nil
}
