package databricks

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/databricks/databricks-sdk-go/service/workspace"
	"github.com/mitchellh/mapstructure"

	"wsclient/internal/pathutil"
)

// ObjectType and Language reuse the SDK enums so values can be handed to the
// SDK request types without conversion.
type (
	ObjectType = workspace.ObjectType
	Language   = workspace.Language
)

const (
	ObjectTypeNotebook  = workspace.ObjectTypeNotebook
	ObjectTypeDirectory = workspace.ObjectTypeDirectory
	ObjectTypeLibrary   = workspace.ObjectTypeLibrary
	ObjectTypeRepo      = workspace.ObjectTypeRepo
	ObjectTypeFile      = workspace.ObjectTypeFile
)

const (
	LanguagePython = workspace.LanguagePython
	LanguageScala  = workspace.LanguageScala
	LanguageSQL    = workspace.LanguageSql
	LanguageR      = workspace.LanguageR
)

// Format is the serialization of notebook content on import and export.
type Format string

const (
	FormatSource  Format = "SOURCE"
	FormatHTML    Format = "HTML"
	FormatJupyter Format = "JUPYTER"
	FormatDBC     Format = "DBC"
	FormatAuto    Format = "AUTO"
)

// DefaultSearchTypes are the object types Search returns when none are given.
var DefaultSearchTypes = []ObjectType{
	ObjectTypeNotebook,
	ObjectTypeDirectory,
	ObjectTypeLibrary,
	ObjectTypeRepo,
}

// WorkspaceObject is a remote entity at a path. The typed fields are decoded
// from Metadata, which holds the object exactly as the remote returned it.
type WorkspaceObject struct {
	workspace.ObjectInfo
	Metadata map[string]any
}

func (obj WorkspaceObject) Name() string {
	return pathutil.Base(obj.Path)
}

func (obj WorkspaceObject) Size() int64 {
	return obj.ObjectInfo.Size
}

func (obj WorkspaceObject) Mode() fs.FileMode {
	if obj.IsDir() {
		return fs.ModeDir | 0755
	}
	return 0644
}

func (obj WorkspaceObject) ModTime() time.Time {
	return time.UnixMilli(obj.ModifiedAt)
}

// IsDir is true for directories and repos, both of which have children.
func (obj WorkspaceObject) IsDir() bool {
	return obj.ObjectType == ObjectTypeDirectory || obj.ObjectType == ObjectTypeRepo
}

func (obj WorkspaceObject) IsNotebook() bool {
	return obj.ObjectType == ObjectTypeNotebook
}

func (obj WorkspaceObject) Sys() any {
	return obj.ObjectInfo
}

func decodeObject(raw map[string]any) (WorkspaceObject, error) {
	var info workspace.ObjectInfo
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &info,
	})
	if err != nil {
		return WorkspaceObject{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return WorkspaceObject{}, fmt.Errorf("failed to decode workspace object: %w", err)
	}
	return WorkspaceObject{ObjectInfo: info, Metadata: raw}, nil
}

// AccessControlEntry is a single permission grant. It is passed to and from
// the remote API as-is.
type AccessControlEntry map[string]any

// ObjectPermissions is the access-control list attached to a workspace object.
type ObjectPermissions struct {
	ObjectID          string               `json:"object_id,omitempty"`
	ObjectType        string               `json:"object_type,omitempty"`
	AccessControlList []AccessControlEntry `json:"access_control_list"`
}
