package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📚 Defaults holds optional per-project defaults for reservation runs.
// Every field can be overridden by flags or prompts; the file only fills
// gaps the user left open.
type Defaults struct {
	// Username is the fallback author name
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	// Registry is the registry host the auth token is written for
	Registry string `json:"registry,omitempty" yaml:"registry,omitempty"`
	// Prune lists extra literal paths to remove before publish, appended
	// after the ignore-file or built-in entries
	Prune []string `json:"prune,omitempty" yaml:"prune,omitempty"`
}

// 🔩 hclDefaults mirrors Defaults for gohcl decoding
type hclDefaults struct {
	Username string   `hcl:"username,optional"`
	Registry string   `hcl:"registry,optional"`
	Prune    []string `hcl:"prune,optional"`
}

// 🗂️ candidate defaults files, checked in order
var defaultsFiles = []string{
	".pkgclaim.yaml",
	".pkgclaim.yml",
	".pkgclaim.json",
	".pkgclaim.hcl",
}

// LoadDefaults loads the first defaults file found in root. The format is
// determined by the file extension. A missing file is not an error; the
// zero Defaults is returned.
func LoadDefaults(root string) (*Defaults, error) {
	for _, name := range defaultsFiles {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Errorf("reading defaults file: %w", err)
		}
		d, err := parseDefaults(data, path)
		if err != nil {
			return nil, errors.Errorf("parsing %s: %w", name, err)
		}
		return d, nil
	}
	return &Defaults{}, nil
}

// parseDefaults parses defaults data by file extension
func parseDefaults(data []byte, path string) (*Defaults, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".hcl":
		return parseHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

func parseJSON(data []byte) (*Defaults, error) {
	var d Defaults
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&d); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &d, nil
}

func parseYAML(data []byte) (*Defaults, error) {
	var d Defaults
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &d, nil
}

func parseHCL(data []byte, filename string) (*Defaults, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var hd hclDefaults
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hd)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &Defaults{
		Username: hd.Username,
		Registry: hd.Registry,
		Prune:    hd.Prune,
	}, nil
}
