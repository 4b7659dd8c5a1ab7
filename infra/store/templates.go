package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// FileTemplateStore loads day templates from a directory of YAML or JSON
// files. The template name is the file name without extension; "Rainy Day"
// and "rainy_day" resolve to the same file.
type FileTemplateStore struct {
	dir string
}

// NewFileTemplateStore validates the directory and returns the store.
func NewFileTemplateStore(dir string) (*FileTemplateStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template dir %s is not a directory", dir)
	}
	return &FileTemplateStore{dir: dir}, nil
}

type templateFile struct {
	Blocks []model.RawBlock `json:"blocks"`
}

// LoadTemplate resolves the named template. A nil slice with nil error means
// the template file does not exist.
func (s *FileTemplateStore) LoadTemplate(name string) ([]model.RawBlock, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		return nil, fmt.Errorf("unsupported template format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load template %s: %w", path, err)
	}
	var tf templateFile
	if err := k.UnmarshalWithConf("", &tf, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", path, err)
	}
	return tf.Blocks, nil
}

// ListTemplates returns the available template names, sorted.
func (s *FileTemplateStore) ListTemplates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileTemplateStore) resolve(name string) (string, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	for _, candidate := range []string{name, slug} {
		for _, ext := range []string{".yaml", ".yml", ".json"} {
			path := filepath.Join(s.dir, candidate+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
	}
	return "", nil
}
