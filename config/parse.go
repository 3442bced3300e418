// Package config implements layered resolution of LSC configuration properties.
package config

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	fileConfig "github.com/olebedev/config"
)

// parseSource parses one configuration source into its ordered key/value
// pairs. The format follows the source name's extension: ".json" and
// ".yml"/".yaml" are structured documents flattened to dotted keys, anything
// else is flat key=value property syntax.
//
// All failures are ParseErrors carrying the source identifier; the caller
// treats any of them as fatal for the whole load.
func parseSource(src *Source) ([]property, error) {
	switch strings.ToLower(path.Ext(src.Name)) {
	case ".json":
		return parseStructured(src.Name, src.Data, fileConfig.ParseJson)
	case ".yml", ".yaml":
		return parseStructured(src.Name, src.Data, fileConfig.ParseYaml)
	default:
		return parseProperties(src.Name, src.Data)
	}
}

// parseProperties parses flat key=value property syntax: one entry per line,
// blank lines and comment lines ignored, surrounding whitespace of values
// trimmed. Within one source the last occurrence of a duplicated key wins,
// the same overwrite rule the cross-source merge applies.
//
// ${...} references stay literal. Expansion is an artifact of specific
// property libraries, like their comma-splitting, and is deliberately not
// part of the engine's contract.
func parseProperties(name string, data []byte) ([]property, error) {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}

	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, ParseError{
			Source: name,
			Err:    err,
		}
	}

	props := make([]property, 0, p.Len())
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		props = append(props, property{key: k, value: strings.TrimSpace(v)})
	}
	return props, nil
}

// parseStructured parses a JSON or YAML document and flattens it into dotted
// keys. The top level must be a mapping (an empty document is fine and yields
// nothing). Lists become ordered string sequences, so their comma-joined
// presentation goes through the same decode path as every other multi-valued
// property.
func parseStructured(name string, data []byte, parse func(string) (*fileConfig.Config, error)) ([]property, error) {
	cfg, err := parse(string(data))
	if err != nil {
		return nil, ParseError{
			Source: name,
			Err:    err,
		}
	}

	if cfg.Root == nil {
		return nil, nil
	}
	root, ok := cfg.Root.(map[string]any)
	if !ok {
		return nil, ParseError{
			Source: name,
			Err:    fmt.Errorf("top level must be a mapping, got %T", cfg.Root),
		}
	}

	props := make([]property, 0, len(root))
	deflateTree("", root, &props)
	return props, nil
}

// deflateTree recursively flattens a nested document into dotted-key
// properties. Siblings are visited in lexicographic key order so a structured
// source enumerates identically across runs.
func deflateTree(p string, src map[string]any, dst *[]property) {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if len(p) > 0 {
			key = fmt.Sprintf("%s.%s", p, k)
		}

		switch tv := src[k].(type) {
		case map[string]any:
			deflateTree(key, tv, dst)
		case []any:
			vs := make([]string, len(tv))
			for i, vv := range tv {
				vs[i] = fmt.Sprintf("%v", vv)
			}
			*dst = append(*dst, property{key: key, value: vs})
		case string:
			*dst = append(*dst, property{key: key, value: tv})
		default:
			*dst = append(*dst, property{key: key, value: fmt.Sprintf("%v", tv)})
		}
	}
}
