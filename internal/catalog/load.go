package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Data file names, relative to the dataset root.
const (
	FileMaterials = "materials.yaml"
	FileRecipes   = "recipes.yaml"
	FileLoot      = "loot.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Embedded returns the data files compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// LootItem is a lootable item with its sell value and display category.
type LootItem struct {
	Name     string `yaml:"name" validate:"required"`
	Value    int    `yaml:"value" validate:"min=0"`
	Category string `yaml:"category" validate:"required"`
}

// LootTier is a display bucket of loot items.
type LootTier struct {
	Tier  string     `yaml:"tier" validate:"required,oneof=S A B C D"`
	Label string     `yaml:"label" validate:"required"`
	Range string     `yaml:"range"`
	Items []LootItem `yaml:"items" validate:"dive"`
}

// LootTable is the loot value database.
type LootTable struct {
	Source string     `yaml:"source"`
	Tiers  []LootTier `yaml:"tiers" validate:"required,min=1,dive"`
	Notes  []string   `yaml:"notes"`
}

// Dataset is everything a report run is computed from. It is built once per
// process and passed explicitly; nothing in it is modified afterwards.
type Dataset struct {
	Source    string
	Materials *Catalog
	Recipes   []Recipe
	Findings  []string
	Loot      LootTable
}

type materialsFile struct {
	Source    string     `yaml:"source"`
	Materials []Material `yaml:"materials" validate:"required,min=1,dive"`
}

type recipesFile struct {
	Recipes  []Recipe `yaml:"recipes" validate:"dive"`
	Findings []string `yaml:"findings"`
}

// Load reads and validates the dataset from fsys.
func Load(fsys fs.FS) (*Dataset, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	var mf materialsFile
	if err := decodeFile(fsys, FileMaterials, v, &mf); err != nil {
		return nil, err
	}
	materials, err := New(mf.Materials)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FileMaterials, err)
	}

	var rf recipesFile
	if err := decodeFile(fsys, FileRecipes, v, &rf); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rf.Recipes))
	for _, r := range rf.Recipes {
		if seen[r.Name] {
			return nil, fmt.Errorf("%s: %w: recipe '%s'", FileRecipes, ErrDuplicateName, r.Name)
		}
		seen[r.Name] = true
	}

	var lt LootTable
	if err := decodeFile(fsys, FileLoot, v, &lt); err != nil {
		return nil, err
	}

	return &Dataset{
		Source:    mf.Source,
		Materials: materials,
		Recipes:   rf.Recipes,
		Findings:  rf.Findings,
		Loot:      lt,
	}, nil
}

func decodeFile(fsys fs.FS, name string, v *validator.Validate, out any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalog, name, err)
	}

	if err := v.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidCatalog, name, describeValidation(err))
	}
	return nil
}

// describeValidation flattens validator errors into "Field: tag" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		ns := e.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", ns, e.Tag(), e.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", ns, e.Tag()))
	}
	return strings.Join(msgs, "; ")
}
