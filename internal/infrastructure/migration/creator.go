package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

BEGIN;

COMMIT;
`

const downTemplate = `-- {{.Name}} (rollback)
-- Created: {{.Timestamp}}

BEGIN;

COMMIT;
`

// versionWidth matches golang-migrate's zero-padded sequential versions (000001_init)
const versionWidth = 6

// File is one migration pair on disk
type File struct {
	Version     uint
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// Create writes the next sequentially numbered up/down pair into dir
func Create(dir, name, description string) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	base := fmt.Sprintf("%0*d_%s", versionWidth, next, slug)
	f := &File{
		Version:     next,
		Name:        slug,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      filepath.Join(dir, base+".up.sql"),
		DownPath:    filepath.Join(dir, base+".down.sql"),
	}

	if err := writeTemplate(f.UpPath, upTemplate, f); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(f.DownPath, downTemplate, f); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return f, nil
}

// List returns the migrations found in dir ordered by version.
// A missing directory has no migrations.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []File{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make([]File, 0, len(entries)/2)
	for _, entry := range entries {
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if entry.IsDir() || !ok {
			continue
		}
		rawVersion, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		version, err := strconv.ParseUint(rawVersion, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, File{
			Version:  uint(version),
			Name:     name,
			UpPath:   filepath.Join(dir, entry.Name()),
			DownPath: filepath.Join(dir, base+".down.sql"),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func writeTemplate(path, body string, data *File) error {
	tmpl, err := template.New("migration").Parse(body)
	if err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	return tmpl.Execute(out, data)
}

// sanitizeName lowercases name and joins its alphanumeric runs with underscores
func sanitizeName(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(words, "_")
}
