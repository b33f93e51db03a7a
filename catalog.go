package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// componentAliases maps a few historically renamed components to the
// names their assets still carry.
var componentAliases = map[string]string{
	"Exchanger905":              "905Exchanger",
	"KettleReboiler907":         "907Kettle Reboiler",
	"OneCellFiredHeaterFurnace": "One Cell Fired Heater, Furnace",
	"TwoCellFiredHeaterFurnace": "Two Cell Fired Heater, Furnace",
}

// cleanString normalizes a component name for fuzzy comparison:
// lowercase, with spaces and common punctuation stripped.
func cleanString(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', ',', '_', '/', '-', '(', ')':
			return -1
		}
		return r
	}, s)
}

type labelSeries struct {
	Legend string
	Suffix string
	Count  int
}

// Catalog is the master component lookup: grip configurations from
// grips.json, label legends from the component-details CSV, and the
// SVG artifact directory. All name lookups are case- and
// punctuation-insensitive with the alias table applied first.
type Catalog struct {
	configs map[string]ComponentConfig
	labels  map[string]*labelSeries
	svgDir  string
}

func LoadCatalog(assetDir string) *Catalog {
	cat := &Catalog{
		configs: make(map[string]ComponentConfig),
		labels:  make(map[string]*labelSeries),
		svgDir:  filepath.Join(assetDir, "svg"),
	}
	if err := cat.loadConfigs(filepath.Join(assetDir, "grips.json")); err != nil {
		log.Printf("catalog: %v", err)
	}
	if err := cat.loadLabels(filepath.Join(assetDir, "Component_Details.csv")); err != nil {
		log.Printf("catalog: %v", err)
	}
	return cat
}

func (cat *Catalog) loadConfigs(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read grips config: %w", err)
	}
	var entries []struct {
		Component string `json:"component"`
		ComponentConfig
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse grips config: %w", err)
	}
	for _, e := range entries {
		cfg := e.ComponentConfig
		if cfg.Name == "" {
			cfg.Name = e.Component
		}
		cat.configs[e.Component] = cfg
	}
	return nil
}

func (cat *Catalog) loadLabels(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read component details: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse component details: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	col := make(map[string]int)
	for i, name := range rows[0] {
		col[strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	for _, row := range rows[1:] {
		key := field(row, "object")
		if key == "" {
			key = field(row, "name")
		}
		if key == "" {
			continue
		}
		cat.labels[cleanString(key)] = &labelSeries{
			Legend: field(row, "legend"),
			Suffix: field(row, "suffix"),
		}
	}
	return nil
}

// ComponentNames lists the cataloged components sorted for display.
func (cat *Catalog) ComponentNames() []string {
	names := make([]string, 0, len(cat.configs))
	for name := range cat.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindArtifact locates the SVG file for a component name, trying the
// alias table, an exact basename match, then the cleaned-name match.
// Returns "" when nothing fits.
func (cat *Catalog) FindArtifact(name string) string {
	if alias, ok := componentAliases[name]; ok {
		name = alias
	}
	target := cleanString(name)

	var found string
	filepath.WalkDir(cat.svgDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || found != "" {
			return nil
		}
		base := d.Name()
		if !strings.EqualFold(filepath.Ext(base), ".svg") {
			return nil
		}
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if stem == name || cleanString(stem) == target {
			found = path
		}
		return nil
	})
	return found
}

// ConfigByName returns the component configuration, or the zero
// config when the catalog has no entry. Missing entries are not an
// error; most components only carry the fallback grips.
func (cat *Catalog) ConfigByName(name string) ComponentConfig {
	if alias, ok := componentAliases[name]; ok {
		name = alias
	}
	if cfg, ok := cat.configs[name]; ok {
		return cfg
	}
	target := cleanString(name)
	for key, cfg := range cat.configs {
		if cleanString(key) == target {
			return cfg
		}
	}
	return ComponentConfig{}
}

// NextLabel issues the next tag in a component's label series, e.g.
// P01A for legend P, count 1, suffix A. Components without a series
// keep their plain name as the label.
func (cat *Catalog) NextLabel(name string) string {
	series, ok := cat.labels[cleanString(name)]
	if !ok {
		return name
	}
	series.Count++
	return fmt.Sprintf("%s%02d%s", series.Legend, series.Count, series.Suffix)
}

// nameFromArtifactPath recovers a readable equipment name from an SVG
// path, dropping the numeric asset prefixes some files carry.
func nameFromArtifactPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.HasPrefix(name, "905") || strings.HasPrefix(name, "907") {
		name = name[3:]
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}
