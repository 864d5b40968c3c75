package config

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/dagcanvas/internal/ctxlog"
)

// fileRoot decodes all recognized top-level blocks from any file.
type fileRoot struct {
	Canvas   *canvasBlock     `hcl:"canvas,block"`
	Theme    *themeBlock      `hcl:"theme,block"`
	Defaults []*defaultsBlock `hcl:"defaults,block"`
	Remain   hcl.Body         `hcl:",remain"`
}

type canvasBlock struct {
	Listen     *string `hcl:"listen,optional"`
	Namespace  *string `hcl:"namespace,optional"`
	GraceDelay *string `hcl:"grace_delay,optional"`
}

type themeBlock struct {
	Default *string      `hcl:"default,optional"`
	Nodes   []*nodeColor `hcl:"node,block"`
}

type nodeColor struct {
	Type  string `hcl:"type,label"`
	Color string `hcl:"color"`
}

type defaultsBlock struct {
	Node   string         `hcl:"node,label"`
	Values hcl.Expression `hcl:"values"`
}

// Load parses every .hcl file under the given paths and merges the
// blocks into one Config. Later files win on scalar settings; theme and
// defaults blocks accumulate. With no paths, the defaults apply.
func Load(ctx context.Context, paths ...string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	cfg := NewDefault()

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered config files.", "count", len(files))

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode config file %s: %w", file, diags)
		}

		if err := mergeRoot(cfg, &root); err != nil {
			return nil, fmt.Errorf("invalid config in %s: %w", file, err)
		}
	}

	return cfg, nil
}

func mergeRoot(cfg *Config, root *fileRoot) error {
	if root.Canvas != nil {
		if root.Canvas.Listen != nil {
			cfg.Listen = *root.Canvas.Listen
		}
		if root.Canvas.Namespace != nil {
			cfg.Namespace = *root.Canvas.Namespace
		}
		if root.Canvas.GraceDelay != nil {
			d, err := time.ParseDuration(*root.Canvas.GraceDelay)
			if err != nil {
				return fmt.Errorf("bad grace_delay: %w", err)
			}
			cfg.GraceDelay = d
		}
	}

	if root.Theme != nil {
		if root.Theme.Default != nil {
			cfg.Theme.DefaultColor = *root.Theme.Default
		}
		for _, nc := range root.Theme.Nodes {
			cfg.Theme.NodeColors[nc.Type] = nc.Color
		}
	}

	for _, def := range root.Defaults {
		val, diags := def.Values.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("bad defaults for node %q: %w", def.Node, diags)
		}
		lowered, err := ctyToGo(val)
		if err != nil {
			return fmt.Errorf("bad defaults for node %q: %w", def.Node, err)
		}
		ports, ok := lowered.(map[string]any)
		if !ok {
			return fmt.Errorf("defaults for node %q must be an object of port values", def.Node)
		}
		if cfg.Defaults[def.Node] == nil {
			cfg.Defaults[def.Node] = make(map[string]any, len(ports))
		}
		for port, value := range ports {
			cfg.Defaults[def.Node][port] = value
		}
	}

	return nil
}

// findHCLFiles recursively collects .hcl files under each path. A path
// that is itself a file is taken as-is.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan config path %s: %w", root, err)
		}
	}
	return files, nil
}
