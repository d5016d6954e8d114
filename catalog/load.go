package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	getter "github.com/hashicorp/go-getter"
	"gopkg.in/yaml.v3"

	"github.com/optiview/partbench/errors"
)

// SupportedSchema is the semver range of catalog document versions this
// build understands.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

// Document is the on-disk shape of an exported part catalog. Field-level
// validation (positivity, ranges) happens in the importing application
// before a catalog is written; the loader only checks the schema version.
type Document struct {
	SchemaVersion string `json:"schemaVersion" yaml:"schemaVersion"`
	Parts         []Part `json:"parts" yaml:"parts"`
}

// LoadFile reads a catalog document from a local JSON or YAML file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "failed to parse YAML catalog %s", path)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "failed to parse JSON catalog %s", path)
		}
	}

	if err := checkSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a catalog from a local path or a remote source. Anything with
// a URL scheme (https://, s3://, git::...) is fetched into a temp directory
// with go-getter first.
func Load(ctx context.Context, src string) (*Document, error) {
	if !strings.Contains(src, "://") {
		return LoadFile(src)
	}

	tmpDir, err := os.MkdirTemp("", "partbench-catalog-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp dir for catalog fetch")
	}
	defer os.RemoveAll(tmpDir)

	dst := filepath.Join(tmpDir, remoteFileName(src))
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch catalog from %s", src)
	}

	return LoadFile(dst)
}

// remoteFileName picks a destination name that preserves the source's
// extension so LoadFile decodes it with the right codec.
func remoteFileName(src string) string {
	name := filepath.Base(strings.SplitN(src, "?", 2)[0])
	if name == "" || name == "." || name == "/" {
		return "catalog.json"
	}
	return name
}

// checkSchemaVersion verifies the document's declared schema version falls
// inside SupportedSchema. A missing version is accepted as current format;
// exporters prior to versioning wrote none.
func checkSchemaVersion(declared string) error {
	if declared == "" {
		return nil
	}

	v, err := semver.NewVersion(declared)
	if err != nil {
		return errors.Wrapf(errors.ErrUnsupportedSchema, "unparseable schemaVersion %q", declared)
	}

	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return errors.Wrap(err, "invalid supported-schema constraint")
	}

	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrUnsupportedSchema, "catalog declares schemaVersion %s, supported range is %s", declared, SupportedSchema),
			"re-export the catalog with a compatible version of the application")
	}
	return nil
}
